package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/opsnotify/pkg/email"
)

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{SendTo: "oncall@example.com", Subject: "s", BodyHTML: "<p>b</p>"}

	tests := []struct {
		name   string
		mutate func(*email.SendEmailParams)
		errMsg string
	}{
		{name: "valid", mutate: func(*email.SendEmailParams) {}},
		{name: "empty SendTo", mutate: func(p *email.SendEmailParams) { p.SendTo = "  " }, errMsg: "SendTo is required"},
		{name: "bad SendTo", mutate: func(p *email.SendEmailParams) { p.SendTo = "user@" }, errMsg: "valid email address"},
		{name: "empty Subject", mutate: func(p *email.SendEmailParams) { p.Subject = "" }, errMsg: "Subject is required"},
		{name: "empty BodyHTML", mutate: func(p *email.SendEmailParams) { p.BodyHTML = "" }, errMsg: "BodyHTML is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, email.ErrInvalidParams)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	t.Run("dev sender without token", func(t *testing.T) {
		t.Parallel()
		s, err := email.NewSender(email.Config{DevOutputDir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &email.DevSender{}, s)
	})

	t.Run("postmark with token", func(t *testing.T) {
		t.Parallel()
		s, err := email.NewSender(email.Config{PostmarkServerToken: "tok", SenderEmail: "alerts@example.com"})
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("postmark rejects bad sender", func(t *testing.T) {
		t.Parallel()
		_, err := email.NewSender(email.Config{PostmarkServerToken: "tok", SenderEmail: "nope"})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := email.NewDevSender(dir)

	err := s.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "oncall@example.com",
		Subject:  "[CRITICAL] Pool exhausted!",
		BodyHTML: "<p>pool</p>",
		Tag:      "alert escalation",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var htmlFile, jsonFile string
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".html":
			htmlFile = e.Name()
		case ".json":
			jsonFile = e.Name()
		}
	}
	assert.True(t, strings.HasSuffix(htmlFile, "_alert_escalation.html"))

	body, err := os.ReadFile(filepath.Join(dir, htmlFile))
	require.NoError(t, err)
	assert.Equal(t, "<p>pool</p>", string(body))

	raw, err := os.ReadFile(filepath.Join(dir, jsonFile))
	require.NoError(t, err)
	var env map[string]string
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, "oncall@example.com", env["send_to"])
	assert.Equal(t, "alert escalation", env["tag"])

	assert.ErrorIs(t, s.SendEmail(context.Background(), email.SendEmailParams{}), email.ErrInvalidParams)
}
