package pasetotoken

import (
	"errors"
	"time"

	paseto "aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// DefaultAccessTTL is how long a login stays valid when no TTL is configured.
const DefaultAccessTTL = 7 * 24 * time.Hour

type Config struct {
	Mode Mode

	Issuer   string
	Audience string

	AccessTTL time.Duration

	// Implicit is bound into every token without being transmitted.
	Implicit []byte
}

// Manager issues and verifies v4 access tokens. Local mode encrypts with a
// shared key; public mode signs with ed25519 so verifiers need only the
// public half.
type Manager struct {
	cfg   Config
	keys  Keys
	parse paseto.Parser
}

func New(cfg Config, keys Keys) (*Manager, error) {
	switch {
	case cfg.Mode != keys.Mode:
		return nil, ErrConfig{Msg: "cfg.Mode must match keys.Mode"}
	case cfg.Issuer == "":
		return nil, ErrConfig{Msg: "Issuer is required"}
	case cfg.Audience == "":
		return nil, ErrConfig{Msg: "Audience is required"}
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}

	p := paseto.NewParser()
	p.AddRule(paseto.IssuedBy(cfg.Issuer))
	p.AddRule(paseto.ForAudience(cfg.Audience))
	p.AddRule(paseto.NotExpired())
	p.AddRule(paseto.NotBeforeNbf())

	return &Manager{cfg: cfg, keys: keys, parse: p}, nil
}

func (m *Manager) AccessTTL() time.Duration { return m.cfg.AccessTTL }

// IssueAccess returns a token carrying the subject's id, session, role and
// email, and the moment it expires.
func (m *Manager) IssueAccess(s Subject) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.cfg.AccessTTL)

	jti, err := uuid.NewV7()
	if err != nil {
		return "", time.Time{}, err
	}

	tok := paseto.NewToken()
	tok.SetIssuer(m.cfg.Issuer)
	tok.SetAudience(m.cfg.Audience)
	tok.SetJti(jti.String())
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(exp)
	tok.SetSubject(s.UserID.String())

	tok.SetString("typ", string(TokenTypeAccess))
	tok.SetString("uid", s.UserID.String())
	tok.SetString("role", s.Role)
	tok.SetString("email", s.Email)
	if s.SessionID != nil {
		tok.SetString("sid", s.SessionID.String())
	}

	out, err := m.seal(&tok)
	if err != nil {
		return "", time.Time{}, err
	}
	return out, exp, nil
}

func (m *Manager) seal(tok *paseto.Token) (string, error) {
	switch m.cfg.Mode {
	case ModeLocal:
		if m.keys.Symmetric == nil {
			return "", ErrConfig{Msg: "missing symmetric key"}
		}
		return tok.V4Encrypt(*m.keys.Symmetric, m.cfg.Implicit), nil
	case ModePublic:
		if m.keys.Secret == nil {
			return "", ErrConfig{Msg: "missing secret key"}
		}
		return tok.V4Sign(*m.keys.Secret, m.cfg.Implicit), nil
	default:
		return "", ErrConfig{Msg: "unknown mode"}
	}
}

func (m *Manager) open(raw string) (*paseto.Token, error) {
	switch m.cfg.Mode {
	case ModeLocal:
		if m.keys.Symmetric == nil {
			return nil, ErrConfig{Msg: "missing symmetric key"}
		}
		return m.parse.ParseV4Local(*m.keys.Symmetric, raw, m.cfg.Implicit)
	case ModePublic:
		if m.keys.Public == nil {
			return nil, ErrConfig{Msg: "missing public key"}
		}
		return m.parse.ParseV4Public(*m.keys.Public, raw, m.cfg.Implicit)
	default:
		return nil, ErrConfig{Msg: "unknown mode"}
	}
}

// Verify checks the token's cryptography, issuer, audience and validity
// window. Any failure caused by the token itself is an ErrInvalidToken.
func (m *Manager) Verify(raw string) (*Claims, error) {
	tok, err := m.open(raw)
	if err != nil {
		var cfgErr ErrConfig
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		return nil, ErrInvalidToken{Err: err}
	}

	claims, err := extractClaims(tok, m.cfg.Issuer, m.cfg.Audience)
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}
	return claims, nil
}

func extractClaims(tok *paseto.Token, iss, aud string) (*Claims, error) {
	out := &Claims{Issuer: iss, Audience: aud}

	var err error
	if out.TokenID, err = tok.GetJti(); err != nil {
		return nil, err
	}
	if out.Subject, err = tok.GetSubject(); err != nil {
		return nil, err
	}
	if out.IssuedAt, err = tok.GetIssuedAt(); err != nil {
		return nil, err
	}
	if out.NotBefore, err = tok.GetNotBefore(); err != nil {
		return nil, err
	}
	if out.ExpiresAt, err = tok.GetExpiration(); err != nil {
		return nil, err
	}

	typ, err := tok.GetString("typ")
	if err != nil {
		return nil, err
	}
	out.Type = TokenType(typ)

	uid, err := tok.GetString("uid")
	if err != nil {
		return nil, err
	}
	if out.UserID, err = uuid.Parse(uid); err != nil {
		return nil, err
	}

	// role and email were added after sid; tolerate their absence
	out.Role, _ = tok.GetString("role")
	out.Email, _ = tok.GetString("email")

	if sidStr, err := tok.GetString("sid"); err == nil {
		sid, err := uuid.Parse(sidStr)
		if err != nil {
			return nil, err
		}
		out.SessionID = &sid
	}
	return out, nil
}
