// Package token implementa la emisión y verificación de session tokens
// firmados y auto-contenidos (access y refresh).
package token

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Kind distingue el tipo de token. En el wire la distinción es únicamente
// por el claim "aud": access y refresh usan audiencias distintas, así un
// access nunca puede replayearse como refresh ni al revés.
type Kind int

const (
	KindAccess Kind = iota + 1
	KindRefresh
)

func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "access"
	case KindRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// ErrInvalidToken colapsa toda falla de verificación (firma, issuer,
// audiencia, expiración). El caller no debe poder distinguir el motivo;
// el detalle queda disponible vía errors.Unwrap para logs.
var ErrInvalidToken = errors.New("invalid token")

// Codec firma y verifica tokens con un secret HMAC compartido.
// El secret se carga una vez al arranque y no rota en runtime, por lo que
// es seguro para lecturas concurrentes sin sincronización.
type Codec struct {
	secret     []byte
	issuer     string
	accessAud  string
	refreshAud string
	accessTTL  time.Duration
	refreshTTL time.Duration

	// now es inyectable para tests; default time.Now.
	now func() time.Time
}

// Options agrupa la configuración del codec.
type Options struct {
	Secret          string
	Issuer          string
	AccessAudience  string
	RefreshAudience string
	AccessTTL       time.Duration // ej: 15m
	RefreshTTL      time.Duration // debe ser mayor al AccessTTL
}

// New construye un Codec. Las audiencias deben ser distintas entre sí.
func New(opts Options) (*Codec, error) {
	if opts.Secret == "" {
		return nil, errors.New("token: secret vacío")
	}
	if opts.AccessAudience == "" || opts.RefreshAudience == "" || opts.AccessAudience == opts.RefreshAudience {
		return nil, errors.New("token: audiencias inválidas (deben ser distintas y no vacías)")
	}
	return &Codec{
		secret:     []byte(opts.Secret),
		issuer:     opts.Issuer,
		accessAud:  opts.AccessAudience,
		refreshAud: opts.RefreshAudience,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		now:        time.Now,
	}, nil
}

// Verified es el resultado de una verificación exitosa.
type Verified struct {
	Subject   string
	Kind      Kind
	ExpiresAt time.Time
}

// Issue emite un token firmado del kind pedido para el subject dado
// (típicamente el email de la cuenta). Retorna el string firmado y su expiry.
func (c *Codec) Issue(subject string, kind Kind) (string, time.Time, error) {
	aud, ttl, err := c.kindParams(kind)
	if err != nil {
		return "", time.Time{}, err
	}

	now := c.now().UTC()
	exp := now.Add(ttl)

	claims := jwtv5.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   subject,
		Audience:  jwtv5.ClaimStrings{aud},
		IssuedAt:  jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(exp),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tk.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify valida firma, issuer, audiencia y expiración, y deduce el kind por
// la audiencia. No consulta el store de refresh tokens: la revocación es
// responsabilidad del caller.
//
// La expiración es estricta: un token leído en t >= exp falla siempre
// (sin leeway), para que el corte sea determinista.
func (c *Codec) Verify(raw string) (Verified, error) {
	claims := &jwtv5.RegisteredClaims{}
	tok, err := jwtv5.ParseWithClaims(raw, claims,
		func(t *jwtv5.Token) (any, error) { return c.secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithIssuer(c.issuer),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(c.now),
	)
	if err != nil || !tok.Valid {
		return Verified{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	// jwt/v5 acepta exp == now; el contrato pide rechazar en t >= exp.
	exp := claims.ExpiresAt
	if exp == nil || !c.now().Before(exp.Time) {
		return Verified{}, fmt.Errorf("%w: expired", ErrInvalidToken)
	}

	kind, err := c.kindFromAudience(claims.Audience)
	if err != nil {
		return Verified{}, err
	}

	return Verified{
		Subject:   claims.Subject,
		Kind:      kind,
		ExpiresAt: exp.Time,
	}, nil
}

// VerifyKind es Verify + chequeo de que el token sea del kind esperado.
// Un kind distinto se reporta igual que cualquier token inválido.
func (c *Codec) VerifyKind(raw string, want Kind) (Verified, error) {
	v, err := c.Verify(raw)
	if err != nil {
		return Verified{}, err
	}
	if v.Kind != want {
		return Verified{}, fmt.Errorf("%w: wrong audience", ErrInvalidToken)
	}
	return v, nil
}

func (c *Codec) kindParams(kind Kind) (aud string, ttl time.Duration, err error) {
	switch kind {
	case KindAccess:
		return c.accessAud, c.accessTTL, nil
	case KindRefresh:
		return c.refreshAud, c.refreshTTL, nil
	default:
		return "", 0, fmt.Errorf("token: kind desconocido %d", kind)
	}
}

func (c *Codec) kindFromAudience(aud jwtv5.ClaimStrings) (Kind, error) {
	for _, a := range aud {
		switch a {
		case c.accessAud:
			return KindAccess, nil
		case c.refreshAud:
			return KindRefresh, nil
		}
	}
	return 0, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
}
