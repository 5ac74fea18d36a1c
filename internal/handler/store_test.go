package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/growthyari/growthyari-server/internal/database"
	"github.com/growthyari/growthyari-server/internal/model"
	"github.com/growthyari/growthyari-server/internal/repository"
)

// memStore backs the repository interfaces with maps so handler tests can
// drive whole workflows through real services.
type memStore struct {
	mu          sync.Mutex
	users       map[string]model.User
	sessions    map[string]model.Session
	requests    map[string]model.ConnectionRequest
	connections map[string]model.Connection
	failWith    error
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[string]model.User{},
		sessions:    map[string]model.Session{},
		requests:    map[string]model.ConnectionRequest{},
		connections: map[string]model.Connection{},
	}
}

func (s *memStore) addUser(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.users[id] = model.User{ID: id, Name: name, Email: name + "@example.com"}
	return id
}

func (s *memStore) profile(id string) model.UserProfile {
	u := s.users[id]
	return model.UserProfile{ID: u.ID, Name: u.Name, Avatar: u.Avatar, Profession: u.Profession}
}

func (s *memStore) WithTx(ctx context.Context, fn database.TxFunc) error {
	return fn(nil)
}

type memUsers struct{ s *memStore }

func (r memUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type memSessions struct{ s *memStore }

func (r memSessions) FindByID(ctx context.Context, id string) (*model.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (r memSessions) FindDetailByID(ctx context.Context, id string) (*model.SessionDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &model.SessionDetail{
		Session: session,
		Expert:  r.s.profile(session.ExpertID),
		Client:  r.s.profile(session.ClientID),
	}, nil
}

func (r memSessions) List(ctx context.Context, filter model.SessionFilter) ([]model.SessionDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	out := []model.SessionDetail{}
	for _, session := range r.s.sessions {
		var match bool
		switch filter.Role {
		case model.SessionRoleExpert:
			match = session.ExpertID == filter.UserID
		case model.SessionRoleClient:
			match = session.ClientID == filter.UserID
		default:
			match = session.IsParty(filter.UserID)
		}
		if !match || (filter.Status != nil && session.Status != *filter.Status) {
			continue
		}
		out = append(out, model.SessionDetail{
			Session: session,
			Expert:  r.s.profile(session.ExpertID),
			Client:  r.s.profile(session.ClientID),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out, nil
}

func (r memSessions) Create(ctx context.Context, p model.CreateSessionParams) (*model.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	session := model.Session{
		ID:          p.ID,
		ExpertID:    p.ExpertID,
		ClientID:    p.ClientID,
		Title:       p.Title,
		Description: p.Description,
		Duration:    p.Duration,
		Price:       p.Price,
		ScheduledAt: p.ScheduledAt,
		Status:      model.SessionStatusPending,
		MeetingLink: p.MeetingLink,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.sessions[session.ID] = session
	return &session, nil
}

func (r memSessions) CompareAndSetStatus(ctx context.Context, id string, expected, next model.SessionStatus) (*model.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok || session.Status != expected {
		return nil, nil
	}
	session.Status = next
	session.UpdatedAt = time.Now()
	r.s.sessions[id] = session
	return &session, nil
}

func (r memSessions) UpdateNotes(ctx context.Context, id, partyID, notes string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return false, r.s.failWith
	}
	session, ok := r.s.sessions[id]
	if !ok || !session.IsParty(partyID) {
		return false, nil
	}
	session.Notes = &notes
	session.UpdatedAt = time.Now()
	r.s.sessions[id] = session
	return true, nil
}

type memRequests struct{ s *memStore }

func (r memRequests) FindByIDForUpdate(ctx context.Context, id string) (*model.ConnectionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r memRequests) FindPendingBetween(ctx context.Context, a, b string) (*model.ConnectionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.requests {
		if req.Status != model.ConnectionRequestPending {
			continue
		}
		if (req.SenderID == a && req.ReceiverID == b) || (req.SenderID == b && req.ReceiverID == a) {
			return &req, nil
		}
	}
	return nil, nil
}

func (r memRequests) Create(ctx context.Context, p model.CreateConnectionRequestParams) (*model.ConnectionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req := model.ConnectionRequest{
		ID:         uuid.New().String(),
		SenderID:   p.SenderID,
		ReceiverID: p.ReceiverID,
		Message:    p.Message,
		Status:     model.ConnectionRequestPending,
		CreatedAt:  time.Now(),
	}
	r.s.requests[req.ID] = req
	return &req, nil
}

func (r memRequests) Resolve(ctx context.Context, id string, status model.ConnectionRequestStatus, at time.Time) (*model.ConnectionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok || req.Status != model.ConnectionRequestPending {
		return nil, nil
	}
	req.Status = status
	req.RespondedAt = &at
	r.s.requests[id] = req
	return &req, nil
}

func (r memRequests) ListByUser(ctx context.Context, userID string, direction model.RequestDirection, limit, offset int) ([]model.ConnectionRequestDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.ConnectionRequestDetail{}
	for _, req := range r.s.requests {
		switch {
		case direction == model.RequestDirectionSent && req.SenderID == userID:
			out = append(out, model.ConnectionRequestDetail{ConnectionRequest: req, Counterpart: r.s.profile(req.ReceiverID)})
		case direction == model.RequestDirectionReceived && req.ReceiverID == userID:
			out = append(out, model.ConnectionRequestDetail{ConnectionRequest: req, Counterpart: r.s.profile(req.SenderID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memRequests) DeleteDeclinedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r memRequests) WithTx(tx *sqlx.Tx) repository.ConnectionRequestRepository { return r }

type memConnections struct{ s *memStore }

func (r memConnections) Create(ctx context.Context, p model.CreateConnectionParams) (*model.Connection, error) {
	if existing, _ := r.FindBetween(ctx, p.User1ID, p.User2ID); existing != nil {
		return existing, nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	conn := model.Connection{ID: uuid.New().String(), User1ID: p.User1ID, User2ID: p.User2ID, ConnectedAt: p.ConnectedAt}
	r.s.connections[conn.ID] = conn
	return &conn, nil
}

func (r memConnections) FindBetween(ctx context.Context, a, b string) (*model.Connection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.connections {
		if (c.User1ID == a && c.User2ID == b) || (c.User1ID == b && c.User2ID == a) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r memConnections) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.ConnectionDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.ConnectionDetail{}
	for _, c := range r.s.connections {
		switch userID {
		case c.User1ID:
			out = append(out, model.ConnectionDetail{Connection: c, Counterpart: r.s.profile(c.User2ID)})
		case c.User2ID:
			out = append(out, model.ConnectionDetail{Connection: c, Counterpart: r.s.profile(c.User1ID)})
		}
	}
	return out, nil
}

func (r memConnections) WithTx(tx *sqlx.Tx) repository.ConnectionRepository { return r }

type pingerFunc func() error

func (f pingerFunc) Ping(ctx context.Context) error { return f() }
