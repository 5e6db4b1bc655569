package session

import (
	"fmt"
	"strconv"
)

func itoa(n int) string { return strconv.Itoa(n) }

func errUnsupportedReverseRequest(command string) error {
	return fmt.Errorf("session: no handler registered for reverse request %q", command)
}
