package model

import (
	"net/url"
	"strings"
	"time"
)

// WhatsAppBaseURL is the click-to-chat endpoint.
const WhatsAppBaseURL = "https://wa.me/"

// InternationalPhone converts a local number (leading 0) to the 62 country
// prefix and drops a leading plus sign.
func InternationalPhone(phone string) string {
	phone = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	phone = strings.TrimPrefix(phone, "+")
	if strings.HasPrefix(phone, "0") {
		return "62" + phone[1:]
	}
	return phone
}

// WhatsAppURL builds a click-to-chat link with a prefilled message.
func WhatsAppURL(phone, text string) string {
	return WhatsAppBaseURL + InternationalPhone(phone) + "?text=" + url.QueryEscape(text)
}

// jakarta is used to stamp forwarded messages in the school's local time.
var jakarta = time.FixedZone("WIB", 7*60*60)

// ForwardMessage formats a visitor's message for the admin's WhatsApp.
func ForwardMessage(schoolName string, c *ContactInput, at time.Time) string {
	at = at.In(jakarta)
	var b strings.Builder
	b.WriteString("*Pesan Baru dari Website " + schoolName + "*\n\n")
	b.WriteString("*Nama:* " + c.Name + "\n")
	b.WriteString("*WhatsApp:* " + c.Phone + "\n")
	b.WriteString("*Email:* " + c.Email + "\n")
	b.WriteString("*Kategori:* " + string(c.Category) + "\n")
	b.WriteString("*Subjek:* " + c.Subject + "\n\n")
	b.WriteString("*Pesan:*\n" + c.Message + "\n\n")
	b.WriteString("---\nDikirim melalui form kontak website\n")
	b.WriteString("Tanggal: " + at.Format("2/1/2006") + "\n")
	b.WriteString("Waktu: " + at.Format("15.04.05"))
	return b.String()
}

// ReplyMessage formats the console's WhatsApp reply to a contact.
func ReplyMessage(schoolName string, c *Contact) string {
	var b strings.Builder
	b.WriteString("Halo " + c.Name + ",\n\n")
	b.WriteString("Terima kasih telah menghubungi " + schoolName + ".\n\n")
	b.WriteString("*Subjek:* " + c.Subject + "\n")
	b.WriteString("*Kategori:* " + string(c.Category) + "\n")
	b.WriteString("*Prioritas:* " + string(c.Priority) + "\n\n")
	b.WriteString("Kami telah menerima pesan Anda:\n\"" + c.Message + "\"\n\n")
	b.WriteString("Tim kami akan segera merespons pertanyaan Anda. ")
	b.WriteString("Jika ada yang mendesak, silakan hubungi langsung ke nomor sekolah.\n\n")
	b.WriteString("Terima kasih,\nAdmin " + schoolName)
	return b.String()
}
