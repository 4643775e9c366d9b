package profiles

// Profile extiende al usuario con datos del dueño. Se crea vacío en la
// primera lectura.
type Profile struct {
	UserID       string
	OwnerName    string
	OwnerAddress string
}

const (
	MaxOwnerNameLen    = 100
	MaxOwnerAddressLen = 255
)
