// Package validation holds the static constraints the video generation
// service enforces on resolution, duration, and variant count. Every check is
// a pure function; nothing here touches the network.
package validation

import (
	"fmt"
	"strings"

	"github.com/rashedtalukder/gosora/types"
)

// Resolution is a supported (width, height) pair in pixels.
type Resolution struct {
	Width  int
	Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// SupportedResolutions is the fixed set of resolutions the service accepts,
// spanning square, portrait, and landscape at 480/720/1080 scale.
var SupportedResolutions = []Resolution{
	{480, 480},
	{480, 854},
	{854, 480},
	{720, 720},
	{720, 1280},
	{1280, 720},
	{1080, 1080},
	{1080, 1920},
	{1920, 1080},
}

// Duration limits in seconds, uniform across all resolutions.
const (
	MinDuration = 1
	MaxDuration = 20
)

// Category buckets a resolution for variant-count limits.
type Category string

const (
	Category1080p Category = "1080p"
	Category720p  Category = "720p"
	CategoryOther Category = "other"
)

// Maximum variants per resolution category.
var maxVariants = map[Category]int{
	Category1080p: 1,
	Category720p:  2,
	CategoryOther: 4,
}

// ResolutionCategory buckets a resolution by thresholding its dimensions:
// any dimension >= 1080 is 1080p, else any dimension >= 720 is 720p, else
// other. The bucketing drives the variant ceiling, so the thresholds matter
// even for unsupported resolutions.
func ResolutionCategory(width, height int) Category {
	switch {
	case width >= 1080 || height >= 1080:
		return Category1080p
	case width >= 720 || height >= 720:
		return Category720p
	default:
		return CategoryOther
	}
}

// MaxVariantsFor returns the variant ceiling for the resolution's category.
func MaxVariantsFor(width, height int) int {
	return maxVariants[ResolutionCategory(width, height)]
}

// MaxDurationFor returns the maximum duration in seconds for a resolution.
// All resolutions currently share the same limit.
func MaxDurationFor(width, height int) int {
	return MaxDuration
}

// ValidateResolution checks that the pair is a member of the supported set.
func ValidateResolution(width, height int) error {
	for _, r := range SupportedResolutions {
		if r.Width == width && r.Height == height {
			return nil
		}
	}
	supported := make([]string, len(SupportedResolutions))
	for i, r := range SupportedResolutions {
		supported[i] = r.String()
	}
	return types.NewValidationError(
		"resolution %dx%d is not supported. Supported resolutions: %s",
		width, height, strings.Join(supported, ", "))
}

// ValidateDuration checks the duration against the global bounds.
func ValidateDuration(duration int) error {
	if duration < MinDuration {
		return types.NewValidationError(
			"duration must be at least %d second. Got %d seconds.", MinDuration, duration)
	}
	if duration > MaxDuration {
		return types.NewValidationError(
			"duration must be at most %d seconds. Got %d seconds.", MaxDuration, duration)
	}
	return nil
}

// ValidateVariants checks the variant count against the ceiling for the
// resolution's category.
func ValidateVariants(width, height, variants int) error {
	if variants <= 0 {
		return types.NewValidationError("number of variants must be greater than 0.")
	}
	category := ResolutionCategory(width, height)
	limit := maxVariants[category]
	if variants <= limit {
		return nil
	}
	switch category {
	case Category1080p:
		return types.NewValidationError(
			"1080p resolutions only support 1 variant. Got %d variants.", variants)
	case Category720p:
		return types.NewValidationError(
			"720p resolutions support maximum %d variants. Got %d variants.", limit, variants)
	default:
		return types.NewValidationError(
			"this resolution supports maximum %d variants. Got %d variants.", limit, variants)
	}
}

// ValidateRequest composes the resolution, duration, and variant checks in
// that order and fails on the first violation.
func ValidateRequest(req types.GenerationRequest) error {
	if err := ValidateResolution(req.Width, req.Height); err != nil {
		return err
	}
	if err := ValidateDuration(req.Duration); err != nil {
		return err
	}
	return ValidateVariants(req.Width, req.Height, req.Variants)
}
