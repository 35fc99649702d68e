package relaypager

import (
	"fmt"

	"github.com/samber/lo"
)

const (
	// NoLimit disables the page size limit.
	NoLimit = 0
	// DefaultMaxLimit mirrors the default RELAY_CONNECTION_MAX_LIMIT.
	DefaultMaxLimit = 100
)

// RequestedCount returns the smaller of the supplied first/last values.
// The second value is false when neither is supplied.
func RequestedCount(first, last *int) (int, bool) {
	supplied := lo.FilterMap([]*int{first, last}, func(v *int, _ int) (int, bool) {
		return lo.FromPtr(v), v != nil && *v != 0
	})
	if len(supplied) == 0 {
		return 0, false
	}

	return lo.Min(supplied), true
}

// IsWithinLimit returns true if count does not exceed maxLimit. NoLimit
// accepts any count.
func IsWithinLimit(count int, maxLimit int) bool {
	return maxLimit == NoLimit || count <= maxLimit
}

// validatePaginationArgs checks first/last and applies the page size limit.
// The returned Args is a copy; when no first/last is supplied and a limit is
// configured, First is set to maxLimit.
func validatePaginationArgs(fieldName string, args Args, maxLimit int, enforceFirstOrLast bool) (Args, error) {
	if args.First != nil && *args.First <= 0 {
		return args, fmt.Errorf("%w: `first` argument must be positive, got `%d`", ErrInvalidArgument, *args.First)
	}
	if args.Last != nil && *args.Last <= 0 {
		return args, fmt.Errorf("%w: `last` argument must be positive, got `%d`", ErrInvalidArgument, *args.Last)
	}

	count, supplied := RequestedCount(args.First, args.Last)
	if enforceFirstOrLast && !supplied {
		return args, fmt.Errorf(
			"%w: you must provide a `first` or `last` value to properly paginate the `%s` connection",
			ErrInvalidArgument, fieldName,
		)
	}

	if maxLimit == NoLimit {
		return args, nil
	}

	if !supplied {
		args.First = lo.ToPtr(maxLimit)
		return args, nil
	}

	if !IsWithinLimit(count, maxLimit) {
		return args, fmt.Errorf(
			"%w: requesting %d records on the `%s` connection exceeds the limit of %d records",
			ErrInvalidArgument, count, fieldName, maxLimit,
		)
	}

	return args, nil
}
