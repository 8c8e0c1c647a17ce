package npm

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestInstall(t *testing.T) {
	cmd := Install("/tmp/frontend")
	if !reflect.DeepEqual(cmd.Args, []string{"npm", "install"}) {
		t.Errorf("Args = %v", cmd.Args)
	}
	if cmd.Dir != "/tmp/frontend" {
		t.Errorf("Dir = %q", cmd.Dir)
	}
}

func TestInstallPackage(t *testing.T) {
	cmd := InstallPackage("/tmp/frontend", "baileys")
	if !reflect.DeepEqual(cmd.Args, []string{"npm", "install", "baileys"}) {
		t.Errorf("Args = %v", cmd.Args)
	}
}

func TestRunScript(t *testing.T) {
	cmd := RunScript("/tmp/frontend", "build")
	if !reflect.DeepEqual(cmd.Args, []string{"npm", "run", "build"}) {
		t.Errorf("Args = %v", cmd.Args)
	}
}

func TestNodeScript(t *testing.T) {
	cmd := NodeScript("/tmp/frontend", "baileys-service.js")
	want := []string{"node", filepath.Join("/tmp/frontend", "baileys-service.js")}
	if !reflect.DeepEqual(cmd.Args, want) {
		t.Errorf("Args = %v, want %v", cmd.Args, want)
	}
	if cmd.Dir != "/tmp/frontend" {
		t.Errorf("Dir = %q", cmd.Dir)
	}
}

func TestInstallHint(t *testing.T) {
	for _, goos := range []string{"linux", "darwin", "windows", "plan9"} {
		if InstallHint(goos) == "" {
			t.Errorf("empty hint for %q", goos)
		}
	}
}
