package util

import "strconv"

func SafeParseInt(str string, fallbackValue int) int {
	if val, err := strconv.Atoi(str); err == nil {
		return val
	}
	return fallbackValue
}
