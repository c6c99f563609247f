package model

import (
	"strings"
	"testing"
)

func TestUserValidate(t *testing.T) {
	cases := []struct {
		name    string
		user    string
		wantErr bool
	}{
		{"valid", "alice", false},
		{"valid with separators", "a-lice_99", false},
		{"min length", "abc", false},
		{"max length", strings.Repeat("a", MaxSenderLen), false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", MaxSenderLen+1), true},
		{"illegal characters", "invalid!#name", true},
		{"empty", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := User{Name: tc.user}.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate(%q) = %v, wantErr=%v", tc.user, err, tc.wantErr)
			}
		})
	}
}

func TestMessageValidate(t *testing.T) {
	if err := (Message{Message: strings.Repeat("x", MaxMessageLen)}).Validate(); err != nil {
		t.Fatalf("expected %d-char message to be valid, got %v", MaxMessageLen, err)
	}
	if err := (Message{Message: strings.Repeat("x", MaxMessageLen+1)}).Validate(); err == nil {
		t.Fatalf("expected %d-char message to be rejected", MaxMessageLen+1)
	}
	if err := (Message{Message: ""}).Validate(); err == nil {
		t.Fatal("expected empty message to be rejected")
	}
}

func TestChatRoomValidate(t *testing.T) {
	cases := []struct {
		name    string
		topic   string
		wantErr bool
	}{
		{"valid", "cats", false},
		{"underscore ok", "cat_pictures", false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("t", MaxTopicLen+1), true},
		{"hyphen not allowed", "cat-pictures", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ChatRoom{ID: 1, Topic: tc.topic}.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate(%q) = %v, wantErr=%v", tc.topic, err, tc.wantErr)
			}
		})
	}
}
