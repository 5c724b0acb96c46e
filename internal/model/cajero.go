package model

import "time"

// Jornada is the shift type of a cashier. It fixes entry and exit times.
type Jornada string

const (
	JornadaManana   Jornada = "mañana"
	JornadaTarde    Jornada = "tarde"
	JornadaCompleto Jornada = "completo"
)

// Horario returns the entry and exit times of the shift, ok=false for an
// unknown jornada.
func (j Jornada) Horario() (entrada, salida string, ok bool) {
	switch j {
	case JornadaManana:
		return "08:00", "16:00", true
	case JornadaTarde:
		return "16:00", "22:00", true
	case JornadaCompleto:
		return "08:00", "22:00", true
	default:
		return "", "", false
	}
}

// Cajero is a registered cashier. PasswordHash holds a bcrypt hash and is
// never returned by the API.
type Cajero struct {
	ID           string  `json:"id"`
	Nombre       string  `json:"name"`
	Apellido     string  `json:"surname"`
	Telefono     string  `json:"phone"`
	Jornada      Jornada `json:"jornada"`
	HoraEntrada  string  `json:"entryTime"`
	HoraSalida   string  `json:"exitTime"`
	Direccion    string  `json:"address"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"password"`
}

// NombreCompleto is the label copied onto sales.
func (c Cajero) NombreCompleto() string {
	if c.Apellido == "" {
		return c.Nombre
	}
	return c.Nombre + " " + c.Apellido
}

// CajeroLogueado is the singleton record of the cashier currently logged in.
type CajeroLogueado struct {
	SesionID string    `json:"sessionId"`
	CajeroID string    `json:"cashierId"`
	Nombre   string    `json:"name"`
	Email    string    `json:"email"`
	LoginAt  time.Time `json:"loginAt"`
}
