package process

import (
	"reflect"
	"testing"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "npm install", []string{"npm", "install"}},
		{"double quotes", `node "my service.js"`, []string{"node", "my service.js"}},
		{"single quotes", `sh -c 'sleep 1'`, []string{"sh", "-c", "sleep 1"}},
		{"escaped space", `echo hello\ world`, []string{"echo", "hello world"}},
		{"extra spacing", "  npm   run   start  ", []string{"npm", "run", "start"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitCommand(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitCommand(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitCommandUnclosedQuote(t *testing.T) {
	if _, err := SplitCommand(`node "unclosed`); err == nil {
		t.Error("expected error for unclosed quote")
	}
}

func TestCommandString(t *testing.T) {
	cmd := Command{Args: []string{"npm", "run", "build"}}
	if got := cmd.String(); got != "npm run build" {
		t.Errorf("String() = %q, want %q", got, "npm run build")
	}
}

func TestCommandEnvironInherit(t *testing.T) {
	cmd := Command{Args: []string{"true"}}
	if got := cmd.environ(); got != nil {
		t.Errorf("environ() without overlay = %v, want nil (inherit)", got)
	}
}
