package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Gate is the yes/no prompt satisfied before a destructive operation runs.
// A false result is a normal abort, not an error; nothing may be mutated
// until the gate confirms.
type Gate interface {
	Confirm(ctx context.Context, title, description string) (bool, error)
}

// Static is a pre-resolved gate. Confirmed(true) is used where the caller
// already gathered consent (e.g. an explicit confirm parameter on the
// request); Confirmed(false) always aborts.
type Static bool

// Confirmed returns a gate that always resolves to ok.
func Confirmed(ok bool) Static {
	return Static(ok)
}

func (s Static) Confirm(ctx context.Context, title, description string) (bool, error) {
	return bool(s), nil
}

// Prompt asks on w and reads a y/N answer from r. Anything but an explicit
// yes aborts; EOF counts as a dismissal.
type Prompt struct {
	R io.Reader
	W io.Writer
}

func (p Prompt) Confirm(ctx context.Context, title, description string) (bool, error) {
	fmt.Fprintf(p.W, "%s\n%s [y/N]: ", title, description)

	line, err := bufio.NewReader(p.R).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
