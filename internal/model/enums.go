package model

type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusConfirmed SessionStatus = "confirmed"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

var sessionStatuses = []SessionStatus{
	SessionStatusPending,
	SessionStatusConfirmed,
	SessionStatusCompleted,
	SessionStatusCancelled,
}

func ParseSessionStatus(s string) (SessionStatus, bool) {
	for _, status := range sessionStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// IsTerminal reports whether no transition is defined out of the status.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}

// SessionRole selects which side of a session the requester is listed on.
type SessionRole string

const (
	SessionRoleExpert SessionRole = "expert"
	SessionRoleClient SessionRole = "client"
	SessionRoleAll    SessionRole = "all"
)

// ParseSessionRole treats an empty value as SessionRoleAll.
func ParseSessionRole(s string) (SessionRole, bool) {
	switch SessionRole(s) {
	case "", SessionRoleAll:
		return SessionRoleAll, true
	case SessionRoleExpert:
		return SessionRoleExpert, true
	case SessionRoleClient:
		return SessionRoleClient, true
	}
	return "", false
}

type ConnectionRequestStatus string

const (
	ConnectionRequestPending  ConnectionRequestStatus = "pending"
	ConnectionRequestAccepted ConnectionRequestStatus = "accepted"
	ConnectionRequestDeclined ConnectionRequestStatus = "declined"
)

type RequestDirection string

const (
	RequestDirectionSent     RequestDirection = "sent"
	RequestDirectionReceived RequestDirection = "received"
)

// ParseRequestDirection treats an empty value as RequestDirectionReceived.
func ParseRequestDirection(s string) (RequestDirection, bool) {
	switch RequestDirection(s) {
	case "", RequestDirectionReceived:
		return RequestDirectionReceived, true
	case RequestDirectionSent:
		return RequestDirectionSent, true
	}
	return "", false
}

type RespondAction string

const (
	RespondActionAccept  RespondAction = "accept"
	RespondActionDecline RespondAction = "decline"
)

func ParseRespondAction(s string) (RespondAction, bool) {
	switch RespondAction(s) {
	case RespondActionAccept, RespondActionDecline:
		return RespondAction(s), true
	}
	return "", false
}

// ResultingStatus is the request status an action moves a pending request to.
func (a RespondAction) ResultingStatus() ConnectionRequestStatus {
	if a == RespondActionAccept {
		return ConnectionRequestAccepted
	}
	return ConnectionRequestDeclined
}
