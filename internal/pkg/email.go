package pkg

import (
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"` // 发件人邮箱
	Password string `yaml:"password"` // 授权码/密码
	From     string `yaml:"from"`     // 显示的发件人，可与 Username 相同
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Port > 0
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

// MemberApprovedHTML 社区申请通过后发给申请人的邮件
func MemberApprovedHTML(fullName string) string {
	return fmt.Sprintf(`<p>Halo %s,</p><p>Pengajuan kamu untuk bergabung dengan komunitas <b>Thread of Hope</b> telah <b>disetujui</b>.</p><p>Terima kasih sudah menjadi bagian dari perjalanan ini.</p>`, html.EscapeString(fullName))
}

// StorySubmittedHTML 新故事待审核时通知管理员
func StorySubmittedHTML(title, author string) string {
	return fmt.Sprintf(`<p>Ada cerita baru menunggu persetujuan.</p><p><b>%s</b> oleh %s</p>`, html.EscapeString(title), html.EscapeString(author))
}
