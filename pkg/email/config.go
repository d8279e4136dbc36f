package email

// Config holds mail delivery settings. Without a Postmark server token the
// service falls back to DevSender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"alerts@localhost.localdomain"`
	ReplyToEmail         string `env:"REPLY_TO_EMAIL"`
	DevOutputDir         string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

// UsePostmark reports whether enough credentials are present for Postmark.
func (c Config) UsePostmark() bool {
	return c.PostmarkServerToken != ""
}
