package dto

type CrearCajeroRequest struct {
	Nombre    string `json:"name"     validate:"required,max=60"`
	Apellido  string `json:"surname"  validate:"max=60"`
	Telefono  string `json:"phone"    validate:"max=30"`
	Jornada   string `json:"jornada"  validate:"required"`
	Direccion string `json:"address"  validate:"max=120"`
	Email     string `json:"email"    validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// ActualizarCajeroRequest replaces every field; an empty password keeps the
// current one.
type ActualizarCajeroRequest struct {
	Nombre    string `json:"name"     validate:"required,max=60"`
	Apellido  string `json:"surname"  validate:"max=60"`
	Telefono  string `json:"phone"    validate:"max=30"`
	Jornada   string `json:"jornada"  validate:"required"`
	Direccion string `json:"address"  validate:"max=120"`
	Email     string `json:"email"    validate:"required,email"`
	Password  string `json:"password" validate:"omitempty,min=6"`
}

// CajeroResponse never carries the password hash.
type CajeroResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"name"`
	Apellido    string `json:"surname"`
	Telefono    string `json:"phone"`
	Jornada     string `json:"jornada"`
	HoraEntrada string `json:"entryTime"`
	HoraSalida  string `json:"exitTime"`
	Direccion   string `json:"address"`
	Email       string `json:"email"`
}
