package port

// VaultProvider defines the interface for fetching the vault addresses to check in batch mode.
type VaultProvider interface {
	GetVaults() ([]string, error)
}
