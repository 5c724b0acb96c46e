package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"micromercado/internal/carrito"
	"micromercado/internal/config"
	"micromercado/internal/dto"
	"micromercado/internal/model"
	"micromercado/internal/repository"
	"micromercado/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Sesion is the context every sale and order is committed under: the cashier
// who logged in and that cashier's cart. Created by Login, destroyed by Logout.
type Sesion struct {
	ID       string
	Cajero   model.CajeroLogueado
	Carrito  *carrito.Carrito
	ExpiraEn time.Time
}

// SesionClaims are embedded in every access token.
type SesionClaims struct {
	SesionID string `json:"session_id"`
	CajeroID string `json:"cashier_id"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type SesionService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sesionID string) error
	// Obtener returns the live session, ErrSesionInvalida when it is unknown
	// or expired.
	Obtener(sesionID string) (*Sesion, error)
	// Actual reads the persisted logged-in cashier record, nil when nobody is
	// logged in.
	Actual(ctx context.Context) (*model.CajeroLogueado, error)
}

// sesionService keeps a single live session, mirroring the single
// cajero_logueado record: a new login replaces the previous session.
type sesionService struct {
	store    *store.Store
	cajeros  repository.CajeroRepository
	sesiones repository.SesionRepository
	cfg      *config.Config
	now      func() time.Time
	comparar func(hash, password []byte) error

	mu     sync.RWMutex
	activa *Sesion
}

func NewSesionService(st *store.Store, cajeros repository.CajeroRepository, sesiones repository.SesionRepository, cfg *config.Config) SesionService {
	return &sesionService{store: st, cajeros: cajeros, sesiones: sesiones, cfg: cfg, now: time.Now,
		comparar: bcrypt.CompareHashAndPassword}
}

func (s *sesionService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	duracion := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	ses := &Sesion{ID: uuid.NewString(), Carrito: carrito.New(), ExpiraEn: s.now().Add(duracion)}

	// bcrypt runs outside the store lock so logins do not stall other writes.
	var cajero *model.Cajero
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		cajero, err = s.cajeros.FindByEmail(tx, req.Email)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCredenciales
	}
	if err != nil {
		return nil, err
	}
	if s.comparar([]byte(cajero.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrCredenciales
	}

	ses.Cajero = model.CajeroLogueado{
		SesionID: ses.ID,
		CajeroID: cajero.ID,
		Nombre:   cajero.NombreCompleto(),
		Email:    cajero.Email,
		LoginAt:  s.now(),
	}
	if err := s.store.Tx(ctx, func(tx *store.Tx) error {
		return s.sesiones.Set(tx, ses.Cajero)
	}); err != nil {
		return nil, err
	}

	token, err := s.generateToken(ses)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	anterior := s.activa
	s.activa = ses
	s.mu.Unlock()
	if anterior != nil {
		log.Info().Str("sesion_id", anterior.ID).Msg("sesion reemplazada por nuevo login")
	}
	log.Info().Str("cajero_id", cajero.ID).Str("sesion_id", ses.ID).Msg("login")

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(duracion.Seconds()),
		SesionID:    ses.ID,
		Cajero:      cajeroToResponse(cajero),
	}, nil
}

func (s *sesionService) Logout(ctx context.Context, sesionID string) error {
	s.mu.Lock()
	if s.activa == nil || s.activa.ID != sesionID {
		s.mu.Unlock()
		return ErrSesionInvalida
	}
	s.activa = nil
	s.mu.Unlock()

	return s.store.Tx(ctx, func(tx *store.Tx) error {
		actual, err := s.sesiones.Get(tx)
		if err != nil {
			return err
		}
		if actual == nil || actual.SesionID != sesionID {
			return nil
		}
		return s.sesiones.Clear(tx)
	})
}

func (s *sesionService) Obtener(sesionID string) (*Sesion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activa == nil || s.activa.ID != sesionID || s.now().After(s.activa.ExpiraEn) {
		return nil, ErrSesionInvalida
	}
	return s.activa, nil
}

func (s *sesionService) Actual(ctx context.Context) (*model.CajeroLogueado, error) {
	var c *model.CajeroLogueado
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		c, err = s.sesiones.Get(tx)
		return err
	})
	return c, err
}

func (s *sesionService) generateToken(ses *Sesion) (string, error) {
	claims := SesionClaims{
		SesionID: ses.ID,
		CajeroID: ses.Cajero.CajeroID,
		Email:    ses.Cajero.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ses.Cajero.CajeroID,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(ses.ExpiraEn),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("firmar token: %w", err)
	}
	return signed, nil
}

// ParseToken validates an access token signed with secret.
func ParseToken(tokenStr, secret string) (*SesionClaims, error) {
	claims := &SesionClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenStr), claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.SesionID == "" {
		return nil, ErrSesionInvalida
	}
	return claims, nil
}
