package pkg

import (
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return d.DialAndSend(m)
}

// ModerationNoticeHTML 通知作者其内容被版主处理
func ModerationNoticeHTML(username, what, moderator string) string {
	return fmt.Sprintf(`<p>Hi %s,</p><p>Your %s was removed by moderator <b>%s</b>.</p><p>If you think this was a mistake, please contact the forum moderators.</p>`,
		html.EscapeString(username), what, html.EscapeString(moderator))
}
