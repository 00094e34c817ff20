package avatar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MaxUserID is the hard ceiling on accepted user ids.
	MaxUserID = 10_000_000_000

	// MinResolution and MaxResolution bound the requested output size.
	MinResolution = 48
	MaxResolution = 2048

	// DefaultResolution is used when the request carries no res parameter.
	DefaultResolution = 180
)

var userIDPattern = regexp.MustCompile(`^[0-9]+$`)

// Params is a validated request triple. It identifies one distinct servable
// response; Color is empty when no background color was requested.
type Params struct {
	UserID     int64
	Resolution int
	Color      string
}

// ParseParams validates the raw request inputs. It has no side effects.
func ParseParams(rawUserID, rawRes, rawColor string) (Params, error) {
	if !userIDPattern.MatchString(rawUserID) {
		return Params{}, fmt.Errorf("%w: %q is not numeric", ErrInvalidUserID, rawUserID)
	}
	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil || userID <= 0 || userID > MaxUserID {
		return Params{}, fmt.Errorf("%w: %q out of range", ErrInvalidUserID, rawUserID)
	}

	res := DefaultResolution
	if rawRes != "" {
		res, err = strconv.Atoi(rawRes)
		if err != nil || res < MinResolution || res > MaxResolution {
			return Params{}, fmt.Errorf("%w: %q must be an integer in [%d, %d]",
				ErrInvalidResolution, rawRes, MinResolution, MaxResolution)
		}
	}

	var colorName string
	if rawColor != "" {
		colorName = strings.ToLower(rawColor)
		if _, ok := PaletteColor(colorName); !ok {
			return Params{}, fmt.Errorf("%w: %q is not a known color", ErrInvalidColor, rawColor)
		}
	}

	return Params{UserID: userID, Resolution: res, Color: colorName}, nil
}
