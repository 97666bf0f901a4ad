package auth

import (
	"context"
	"errors"
	"fmt"

	"riveros/internal/core"
	"riveros/internal/log"
	"riveros/internal/ragic"
)

// Backend is the slice of the Ragic client the login flow needs.
type Backend interface {
	PasswordAuth(ctx context.Context, email, password string) (string, error)
	FetchRows(ctx context.Context, sheetPath string, q ragic.Query) (map[string]any, error)
}

// Service verifies credentials against the backend and resolves the
// signed-in user's vessel assignment from the users sheet.
type Service struct {
	backend Backend
	logger  *log.Logger
}

func NewService(backend Backend, logger *log.Logger) *Service {
	return &Service{
		backend: backend,
		logger:  logger.WithComponent(log.ComponentAuth),
	}
}

// Login checks the credentials and returns the caller's identity. Bad
// credentials and unknown users both come back as core.ErrUnauthorized so
// the API response never reveals which half failed.
func (s *Service) Login(ctx context.Context, email, password string) (core.Identity, error) {
	if email == "" || password == "" {
		return core.Identity{}, core.ErrUnauthorized
	}

	if _, err := s.backend.PasswordAuth(ctx, email, password); err != nil {
		if errors.Is(err, ragic.ErrAuthFailed) {
			s.logger.WarnContext(ctx, "login rejected", log.FieldUserEmail, email)
			return core.Identity{}, core.ErrUnauthorized
		}
		return core.Identity{}, fmt.Errorf("verifying credentials: %w", err)
	}

	identity, err := s.lookupUser(ctx, email)
	if err != nil {
		return core.Identity{}, err
	}

	s.logger.InfoContext(ctx, "login accepted",
		log.FieldUserEmail, identity.Email,
		log.FieldVessel, identity.Vessel,
	)
	return identity, nil
}

func (s *Service) lookupUser(ctx context.Context, email string) (core.Identity, error) {
	rows, err := s.backend.FetchRows(ctx, ragic.SheetUsers, ragic.Query{
		WhereField: ragic.UserEmail,
		WhereValue: email,
		Limit:      1,
	})
	if err != nil {
		return core.Identity{}, fmt.Errorf("fetching user record: %w", err)
	}

	for key, raw := range rows {
		if len(key) > 0 && key[:1] == ragic.MetaPrefix {
			continue
		}
		row, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		return core.Identity{
			Email:      stringField(row, ragic.UserEmail),
			Name:       stringField(row, ragic.UserName),
			Vessel:     stringField(row, ragic.UserAssignedVessel),
			VesselAbbr: stringField(row, ragic.UserVesselAbbr),
		}, nil
	}

	// Authenticated against the origin but absent from the users sheet.
	s.logger.WarnContext(ctx, "no user record for authenticated email", log.FieldUserEmail, email)
	return core.Identity{}, core.ErrUnauthorized
}

func stringField(row map[string]any, fieldID string) string {
	switch v := row[fieldID].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}
