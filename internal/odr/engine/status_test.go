package engine

import (
	"strings"
	"testing"
)

func TestStatusErr(t *testing.T) {
	ok := Status{Code: OK, Msg: "ok"}
	if !ok.OK() || ok.Err() != nil {
		t.Errorf("OK status reports error: %v", ok.Err())
	}

	failed := Status{Code: ConversionError, Msg: "1_0: center lane count 2, want 1"}
	if failed.OK() {
		t.Error("failed status reports OK")
	}
	err := failed.Err()
	if err == nil {
		t.Fatal("failed status yields nil error")
	}
	if !strings.Contains(err.Error(), "conversion error") ||
		!strings.Contains(err.Error(), "center lane count") {
		t.Errorf("error %q missing code or message", err)
	}
}

func TestErrorCodeStrings(t *testing.T) {
	cases := map[ErrorCode]string{
		OK:              "ok",
		InitError:       "init error",
		ConversionError: "conversion error",
		IndexError:      "index error",
	}
	for code, want := range cases {
		if code.String() != want {
			t.Errorf("%d.String() = %q, want %q", code, code.String(), want)
		}
	}
}
