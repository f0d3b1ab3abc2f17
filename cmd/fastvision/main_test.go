package main

import "testing"

func TestRunRejectsMissingArgument(t *testing.T) {
	if code := run(nil); code != 2 {
		t.Fatalf("got exit code %d, want 2", code)
	}
}

func TestRunRejectsUnsupportedExtension(t *testing.T) {
	if code := run([]string{"document.txt"}); code != 2 {
		t.Fatalf("got exit code %d, want 2", code)
	}
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	if code := run([]string{"--bogus-flag", "document.pdf"}); code != 2 {
		t.Fatalf("got exit code %d, want 2", code)
	}
}
