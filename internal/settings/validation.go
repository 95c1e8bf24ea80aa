package settings

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/condoview/internal/domain"
)

// Validate normalizes settings in place. Unknown tabs resolve to the
// default tab and unknown help modes to short help.
// Preconditions: settings must be non-nil.
func Validate(settings *Settings) error {
	if settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}
	settings.ActiveTab = domain.NormalizeTab(string(settings.ActiveTab))
	settings.TypeFilter = strings.TrimSpace(settings.TypeFilter)
	if err := validateHelp(settings); err != nil {
		return err
	}
	return nil
}

func validateHelp(settings *Settings) error {
	switch strings.ToLower(strings.TrimSpace(settings.Help)) {
	case HelpFull:
		settings.Help = HelpFull
	default:
		settings.Help = HelpShort
	}
	return nil
}
