// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/site-payouts/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateStoreType checks if the store type names a supported backend.
func ValidateStoreType(storeType string) error {
	switch storeType {
	case constants.StoreMemory, constants.StoreSQLite, constants.StorePostgres, constants.StoreRedis:
		return nil
	}
	return fmt.Errorf("unsupported store type %q (expected %s, %s, %s or %s)", storeType,
		constants.StoreMemory, constants.StoreSQLite, constants.StorePostgres, constants.StoreRedis)
}
