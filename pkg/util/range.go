package util

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ExpandVLANList expands a VLAN list token as written in a running-config
// into individual VLAN IDs, keeping the order and duplicates of the source:
//   - "10" -> [10]
//   - "10,12" -> [10, 12]
//   - "10-12" -> [10, 11, 12]
//   - "5,10-12,20" -> [5, 10, 11, 12, 20]
//   - "20-21,20" -> [20, 21, 20]
//
// Every ID and both bounds of every range must be within 1-4094; anything
// else fails with ErrInvalidVLAN before expansion.
func ExpandVLANList(token string) ([]int, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty VLAN list", ErrInvalidRange)
	}

	var result []int
	for _, part := range strings.Split(token, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty element in %q", ErrInvalidRange, token)
		}

		if !strings.Contains(part, "-") {
			val, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid VLAN %q", ErrInvalidRange, part)
			}
			if err := ValidateVLANID(val); err != nil {
				return nil, err
			}
			result = append(result, val)
			continue
		}

		start, end, err := splitBounds(part)
		if err != nil {
			return nil, err
		}
		if err := ValidateVLANID(start); err != nil {
			return nil, err
		}
		if err := ValidateVLANID(end); err != nil {
			return nil, err
		}
		for i := start; i <= end; i++ {
			result = append(result, i)
		}
	}

	return result, nil
}

// ExpandRange expands a range list such as "1-3,7" into sorted, unique values.
// Used for user-supplied filters where order carries no meaning:
//   - "1-5" -> [1, 2, 3, 4, 5]
//   - "1-3,5,7-9" -> [1, 2, 3, 5, 7, 8, 9]
//   - "1-3,2-4" -> [1, 2, 3, 4]
func ExpandRange(list string) ([]int, error) {
	if list == "" {
		return nil, nil
	}

	var result []int
	for _, part := range SplitCommaSeparated(list) {
		if strings.Contains(part, "-") {
			start, end, err := splitBounds(part)
			if err != nil {
				return nil, err
			}
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
		} else {
			val, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid value: %s", ErrInvalidRange, part)
			}
			result = append(result, val)
		}
	}

	sort.Ints(result)
	return dedupInts(result), nil
}

// maxRangeSpan is the largest number of values a single "a-b" range may
// expand to, the size of the 802.1Q VLAN space.
const maxRangeSpan = 4094

// splitBounds parses "a-b" into its inclusive bounds. Ranges wider than
// maxRangeSpan are rejected.
func splitBounds(part string) (int, int, error) {
	bounds := strings.Split(part, "-")
	if len(bounds) != 2 {
		return 0, 0, fmt.Errorf("%w: invalid range format: %s", ErrInvalidRange, part)
	}

	start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid start value in range %s", ErrInvalidRange, part)
	}
	end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid end value in range %s", ErrInvalidRange, part)
	}
	if start > end {
		return 0, 0, fmt.Errorf("%w: start value %d greater than end value %d in range %s", ErrInvalidRange, start, end, part)
	}
	if end-start >= maxRangeSpan {
		return 0, 0, fmt.Errorf("%w: range %s spans more than %d values", ErrInvalidRange, part, maxRangeSpan)
	}
	return start, end, nil
}

// CompactRange compacts a list of integers into range notation
// [1, 2, 3, 5, 7, 8, 9] -> "1-3,5,7-9"
func CompactRange(values []int) string {
	if len(values) == 0 {
		return ""
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)
	sorted = dedupInts(sorted)

	var parts []string
	start := sorted[0]
	end := sorted[0]

	for i := 1; i < len(sorted); i++ {
		if sorted[i] == end+1 {
			end = sorted[i]
		} else {
			parts = append(parts, formatRange(start, end))
			start = sorted[i]
			end = sorted[i]
		}
	}
	parts = append(parts, formatRange(start, end))

	return strings.Join(parts, ",")
}

func formatRange(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}

func dedupInts(sorted []int) []int {
	if len(sorted) == 0 {
		return sorted
	}
	result := []int{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			result = append(result, sorted[i])
		}
	}
	return result
}

// ValidateVLANID checks that id is a usable 802.1Q VLAN ID (1-4094).
func ValidateVLANID(id int) error {
	if id < 1 || id > 4094 {
		return fmt.Errorf("%w: %d (must be 1-4094)", ErrInvalidVLAN, id)
	}
	return nil
}

// ParseVLANFilter expands a user-supplied VLAN filter such as "100-105,200"
// and validates every ID in it.
func ParseVLANFilter(list string) ([]int, error) {
	vlans, err := ExpandRange(list)
	if err != nil {
		return nil, err
	}

	for _, vlan := range vlans {
		if err := ValidateVLANID(vlan); err != nil {
			return nil, err
		}
	}

	return vlans, nil
}
