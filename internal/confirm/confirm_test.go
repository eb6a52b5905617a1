package confirm_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Additional-Code/orderdesk/internal/confirm"
)

func TestPromptAnswers(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes word", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty defaults to no", input: "\n", want: false},
		{name: "eof counts as dismissal", input: "", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			p := confirm.Prompt{R: strings.NewReader(tc.input), W: &out}

			ok, err := p.Confirm(context.Background(), "Delete this order?", "This action cannot be undone.")
			if err != nil {
				t.Fatalf("confirm: %v", err)
			}
			if ok != tc.want {
				t.Errorf("ok = %v, want %v", ok, tc.want)
			}
			if !strings.Contains(out.String(), "Delete this order?") {
				t.Errorf("prompt text missing from output: %q", out.String())
			}
		})
	}
}

func TestStaticGates(t *testing.T) {
	ok, err := confirm.Confirmed(true).Confirm(context.Background(), "t", "d")
	if err != nil || !ok {
		t.Fatalf("Confirmed(true) = %v, %v", ok, err)
	}
	ok, err = confirm.Confirmed(false).Confirm(context.Background(), "t", "d")
	if err != nil || ok {
		t.Fatalf("Confirmed(false) = %v, %v", ok, err)
	}
}
