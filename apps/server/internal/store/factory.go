package store

import (
	"fmt"
	"os"
	"strings"
)

const (
	StoreModeMemory   = "memory"
	StoreModeSQLite   = "sqlite"
	StoreModePostgres = "postgres"
)

func storeModeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_MODE")))
	switch raw {
	case "", StoreModeSQLite, "local":
		return StoreModeSQLite
	case StoreModePostgres, "postgresql", "db":
		return StoreModePostgres
	case StoreModeMemory, "mem":
		return StoreModeMemory
	default:
		return raw
	}
}

func NewServiceFromEnv() (Service, string, error) {
	mode := storeModeFromEnv()

	switch mode {
	case StoreModeSQLite:
		service, err := NewSQLiteServiceFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return service, mode, nil
	case StoreModePostgres:
		service, err := NewPostgresServiceFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return service, mode, nil
	case StoreModeMemory:
		return NewMemoryService(), mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid STORE_MODE %q (supported: %s, %s, %s)",
			mode, StoreModeMemory, StoreModeSQLite, StoreModePostgres)
	}
}
