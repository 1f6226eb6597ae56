package irc

import "testing"

func TestChannelName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"somechannel", "#somechannel"},
		{"#somechannel", "#somechannel"},
		{"SomeChannel", "#somechannel"},
		{"#MixedCase", "#mixedcase"},
		{"", "#"},
	}
	for _, tt := range tests {
		if got := ChannelName(tt.in); got != tt.want {
			t.Errorf("ChannelName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoginName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#somechannel", "somechannel"},
		{"somechannel", "somechannel"},
		{"#SomeChannel", "somechannel"},
		{"UserName", "username"},
		{"", ""},
		{"#", ""},
	}
	for _, tt := range tests {
		if got := LoginName(tt.in); got != tt.want {
			t.Errorf("LoginName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalFormsIdempotent(t *testing.T) {
	inputs := []string{"", "chan", "#chan", "MiXeD", "#MiXeD", "user123"}
	for _, in := range inputs {
		once := ChannelName(in)
		if twice := ChannelName(once); twice != once {
			t.Errorf("ChannelName not idempotent for %q: %q then %q", in, once, twice)
		}
		once = LoginName(in)
		if twice := LoginName(once); twice != once {
			t.Errorf("LoginName not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
