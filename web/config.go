package web

import "time"

type Config struct {
	Addr         string        `envconfig:"ADDR" split_words:"true" default:":8001"`
	CookieName   string        `envconfig:"COOKIE_NAME" split_words:"true" default:"shop_session"`
	CookieSecure bool          `envconfig:"COOKIE_SECURE" split_words:"true" default:"false"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" split_words:"true" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" split_words:"true" default:"90s"`
	TurnTimeout  time.Duration `envconfig:"TURN_TIMEOUT" split_words:"true" default:"60s"`
}

func (c Config) cookieName() string {
	if c.CookieName == "" {
		return "shop_session"
	}
	return c.CookieName
}
