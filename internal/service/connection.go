package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	apperrors "github.com/growthyari/growthyari-server/internal/errors"
	"github.com/growthyari/growthyari-server/internal/model"
	"github.com/growthyari/growthyari-server/internal/repository"
	"github.com/growthyari/growthyari-server/internal/util"
)

type ConnectionService struct {
	tx             Transactor
	userRepo       repository.UserRepository
	requestRepo    repository.ConnectionRequestRepository
	connectionRepo repository.ConnectionRepository
}

func NewConnectionService(
	tx Transactor,
	userRepo repository.UserRepository,
	requestRepo repository.ConnectionRequestRepository,
	connectionRepo repository.ConnectionRepository,
) *ConnectionService {
	return &ConnectionService{
		tx:             tx,
		userRepo:       userRepo,
		requestRepo:    requestRepo,
		connectionRepo: connectionRepo,
	}
}

// SendRequest creates a pending request from senderID to receiverID.
// A pair may have at most one pending request, in either direction, and
// already connected users cannot request each other again.
func (s *ConnectionService) SendRequest(ctx context.Context, senderID, receiverID string, message *string) (*model.ConnectionRequest, error) {
	if senderID == receiverID {
		return nil, apperrors.InvalidOperation("Cannot send connection request to yourself")
	}
	if !util.IsValidUUID(receiverID) {
		return nil, apperrors.NotFound("User")
	}

	receiver, err := s.userRepo.FindByID(ctx, receiverID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if receiver == nil {
		return nil, apperrors.NotFound("User")
	}
	// receiverID may differ from the stored id in case only.
	if receiver.ID == senderID {
		return nil, apperrors.InvalidOperation("Cannot send connection request to yourself")
	}
	receiverID = receiver.ID

	pending, err := s.requestRepo.FindPendingBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if pending != nil {
		return nil, apperrors.AlreadyExists("Pending connection request")
	}

	existing, err := s.connectionRepo.FindBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Connection")
	}

	req, err := s.requestRepo.Create(ctx, model.CreateConnectionRequestParams{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    message,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("Pending connection request")
		}
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("requestId", req.ID).
		Str("senderId", senderID).
		Str("receiverId", receiverID).
		Msg("connection request sent")

	return req, nil
}

// Respond answers a pending request addressed to responderID. Accepting
// records the connection in the same transaction as the status change.
func (s *ConnectionService) Respond(ctx context.Context, requestID, responderID string, action model.RespondAction) (model.ConnectionRequestStatus, error) {
	if !util.IsValidUUID(requestID) {
		return "", apperrors.NotFound("Connection request")
	}

	status := action.ResultingStatus()
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		requests := s.requestRepo.WithTx(tx)

		req, err := requests.FindByIDForUpdate(ctx, requestID)
		if err != nil {
			return apperrors.Database(err)
		}
		if req == nil {
			return apperrors.NotFound("Connection request")
		}
		if req.ReceiverID != responderID {
			return apperrors.Forbidden("Not authorized to respond to this request")
		}
		if req.Status != model.ConnectionRequestPending {
			return apperrors.InvalidState("Request already " + string(req.Status))
		}

		now := time.Now()
		resolved, err := requests.Resolve(ctx, req.ID, status, now)
		if err != nil {
			return apperrors.Database(err)
		}
		if resolved == nil {
			return apperrors.InvalidState("Request already answered")
		}

		if action != model.RespondActionAccept {
			return nil
		}

		conn, err := s.connectionRepo.WithTx(tx).Create(ctx, model.CreateConnectionParams{
			User1ID:     req.SenderID,
			User2ID:     req.ReceiverID,
			ConnectedAt: now,
		})
		if err != nil {
			return apperrors.Database(err)
		}
		log.Info().
			Str("connectionId", conn.ID).
			Str("user1Id", conn.User1ID).
			Str("user2Id", conn.User2ID).
			Msg("connection created")
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return "", err
		}
		return "", apperrors.Database(err)
	}

	log.Info().
		Str("requestId", requestID).
		Str("status", string(status)).
		Msg("connection request answered")

	return status, nil
}

func (s *ConnectionService) ListConnections(ctx context.Context, userID string, limit, offset int) ([]model.ConnectionDetail, error) {
	connections, err := s.connectionRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return connections, nil
}

// ListRequests returns the requests userID sent or received, newest first.
func (s *ConnectionService) ListRequests(ctx context.Context, userID string, direction model.RequestDirection, limit, offset int) ([]model.ConnectionRequestDetail, error) {
	requests, err := s.requestRepo.ListByUser(ctx, userID, direction, limit, offset)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return requests, nil
}
