package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/shopindream/storefront/internal/backend"
	inErrors "github.com/shopindream/storefront/internal/errors"
	"github.com/shopindream/storefront/internal/log"
	"github.com/shopindream/storefront/user/internal/otel"
	"github.com/shopindream/storefront/user/pkg/request"
	"github.com/shopindream/storefront/user/pkg/response"
)

// UserService authenticates against the user backend. Tokens are issued and
// verified server-side, the client only decodes claims for expiry display.
type UserService struct {
	client  *backend.Client
	userURL string
}

func NewUserService(client *backend.Client, userURL string) *UserService {
	return &UserService{client: client, userURL: userURL}
}

// loginPayload carries the real password. The request type masks it when
// marshaled so it must not be posted directly.
type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (svc *UserService) Login(
	c context.Context,
	req request.Login,
) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Login").
		Str(log.KeyProcess, "logging in").
		Str(log.KeyEmail, req.Email).
		Logger()

	logger.Info().Msg("logging in")
	payload := loginPayload{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}
	envelope, err := svc.client.PostJson(c, svc.userURL+"/login.php", payload, nil)
	if err != nil {
		err = fmt.Errorf("failed logging in with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}

	session, err := sessionFromEnvelope(envelope)
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Msg("logged in")
	return session, nil
}

func (svc *UserService) Register(
	c context.Context,
	req request.Register,
) (response.Session, error) {
	c, span := otel.Tracer.Start(c, "UserService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Register").
		Str(log.KeyProcess, "registering").
		Str(log.KeyEmail, req.Email).
		Logger()

	logger.Info().Msg("registering")
	payload := registerPayload{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Phone:    strings.TrimSpace(req.Phone),
	}
	envelope, err := svc.client.PostJson(c, svc.userURL+"/reg.php", payload, nil)
	if err != nil {
		err = fmt.Errorf("failed registering with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}

	session, err := sessionFromEnvelope(envelope)
	if err != nil {
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Session{}, err
	}
	logger.Info().Msg("registered")
	return session, nil
}

// sessionFromEnvelope normalizes the two auth response shapes: token in the
// data object or at the top level, user nested under data.user or as the
// data object itself.
func sessionFromEnvelope(envelope backend.Envelope) (response.Session, error) {
	nested := struct {
		User  *response.User `json:"user"`
		Token string         `json:"token"`
	}{}
	if err := envelope.Bind(&nested); err != nil {
		return response.Session{}, fmt.Errorf("failed reading auth response with error=%w", err)
	}

	session := response.Session{Token: nested.Token}
	if nested.User != nil {
		session.User = *nested.User
	} else {
		user := response.User{}
		if err := envelope.Bind(&user); err == nil {
			session.User = user
		}
	}
	if session.Token == "" {
		topLevel := struct {
			Token string `json:"token"`
		}{}
		if len(envelope.Raw) > 0 {
			if err := json.Unmarshal(envelope.Raw, &topLevel); err == nil {
				session.Token = topLevel.Token
			}
		}
	}
	if session.Token == "" {
		return response.Session{}, inErrors.ErrTokenInvalid
	}

	session.ExpiresAt = tokenExpiry(session.Token)
	return session, nil
}

// tokenExpiry decodes the token without verifying it. Verification belongs to
// the backend, the client only needs the expiry for display and renewal.
func tokenExpiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
