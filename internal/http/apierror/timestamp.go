package apierror

import (
	"fmt"
	"time"
)

// TimestampLayout es el patrón fijo del campo timestamp del ApiError:
// dd/MM/yyyy'T'HH:mm:ss.SSS'Z', siempre en UTC. No es el default ISO-8601:
// el contrato con los clientes exige este formato exacto en ambos sentidos.
const TimestampLayout = "02/01/2006T15:04:05.000Z"

// Timestamp serializa/deserializa instantes con TimestampLayout.
// Precisión de milisegundos; la 'Z' final es literal.
type Timestamp time.Time

// Now retorna el instante actual como Timestamp (UTC).
func Now() Timestamp {
	return Timestamp(time.Now().UTC())
}

// Time retorna el time.Time subyacente.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// String formatea con el patrón fijo.
func (t Timestamp) String() string {
	return time.Time(t).UTC().Truncate(time.Millisecond).Format(TimestampLayout)
}

// MarshalJSON emite el timestamp con el patrón fijo.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON acepta únicamente el patrón fijo: un string sin la 'Z'
// final, con otro orden de campos o con otra precisión es un error de
// deserialización.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("apierror: timestamp no es un string JSON")
	}
	s := string(b[1 : len(b)-1])
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("apierror: timestamp %q no cumple el patrón %s: %w", s, TimestampLayout, err)
	}
	*t = Timestamp(parsed)
	return nil
}
