// conf/validate.go

package conf

import (
	"fmt"
	"strconv"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	// Validate WebServer settings
	if err := validateWebServerSettings(settings); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	// Validate database output settings
	if err := validateOutputSettings(settings); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateWebServerSettings(settings *Settings) error {
	port, err := strconv.Atoi(settings.WebServer.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid web server port: %s", settings.WebServer.Port)
	}
	return nil
}

func validateOutputSettings(settings *Settings) error {
	if !settings.Output.SQLite.Enabled && !settings.Output.MySQL.Enabled {
		return fmt.Errorf("no database output enabled, enable either sqlite or mysql")
	}
	if settings.Output.SQLite.Enabled && settings.Output.SQLite.Path == "" {
		return fmt.Errorf("sqlite output enabled but path is empty")
	}
	if settings.Output.MySQL.Enabled {
		if settings.Output.MySQL.Database == "" || settings.Output.MySQL.Host == "" {
			return fmt.Errorf("mysql output enabled but database or host is empty")
		}
		if _, err := strconv.Atoi(settings.Output.MySQL.Port); err != nil {
			return fmt.Errorf("invalid mysql port: %s", settings.Output.MySQL.Port)
		}
	}
	return nil
}
