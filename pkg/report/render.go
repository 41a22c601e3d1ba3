package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/vit0-9/domain_report/pkg/utils"
	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	keyColor    = color.New(color.FgWhite, color.Bold)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	errColor    = color.New(color.FgRed)
)

// WriteJSON encodes rep as indented JSON.
func WriteJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// printer keeps the first write error so rendering code can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(c *color.Color, format string, args ...any) {
	if p.err != nil {
		return
	}
	if c == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
		return
	}
	_, p.err = c.Fprintf(p.w, format, args...)
}

func (p *printer) header(title string) {
	p.printf(headerColor, "\n== %s ==\n", title)
}

func (p *printer) field(key string, value any) {
	if s, ok := value.(string); ok && s == "" {
		return
	}
	if t, ok := value.(time.Time); ok {
		if t.IsZero() {
			return
		}
		value = t.Format("2006-01-02")
	}
	p.printf(keyColor, "  %-16s", key+":")
	p.printf(nil, " %v\n", value)
}

func (p *printer) list(key string, values []string) {
	if len(values) == 0 {
		return
	}
	p.field(key, strings.Join(values, ", "))
}

func (p *printer) failure(msg string) {
	p.printf(errColor, "  %s\n", msg)
}

// WriteText renders rep for a terminal. Colour follows color.NoColor.
func WriteText(w io.Writer, rep *Report) error {
	p := &printer{w: w}
	p.printf(headerColor, "Domain report for %s\n", rep.Domain)
	p.printf(nil, "Generated %s\n", rep.GeneratedAt.Format(time.RFC3339))

	if s := rep.PublicIP; s != nil {
		p.header("Public IP")
		if s.Error != "" {
			p.failure(s.Error)
		} else {
			p.field("Address", s.IP)
		}
	}

	if s := rep.Whois; s != nil {
		p.header("WHOIS")
		if s.Error != "" {
			p.failure(s.Error)
		} else {
			writeWhois(p, s)
		}
	}

	if s := rep.RDAP; s != nil {
		p.header("RDAP")
		if s.Error != "" {
			p.failure(s.Error)
		} else if info := s.Info; info != nil {
			p.field("Handle", info.Handle)
			p.field("Registrar", info.Registrar)
			p.list("Status", info.Status)
			p.list("Name servers", info.NameServers)
			for _, action := range sortedKeys(info.Events) {
				p.field(action, info.Events[action])
			}
		}
	}

	if s := rep.DNS; s != nil {
		p.header("DNS records")
		for _, rtype := range sortedKeys(s.Records) {
			for _, rec := range s.Records[rtype] {
				value := rec.Value
				if rec.Priority > 0 {
					value = fmt.Sprintf("%d %s", rec.Priority, value)
				}
				p.field(rtype, value)
			}
		}
		for _, rtype := range sortedKeys(s.Errors) {
			p.printf(warnColor, "  %-16s %s\n", rtype+":", s.Errors[rtype])
		}
	}

	if s := rep.SSL; s != nil {
		p.header("SSL certificate")
		if s.Error != "" {
			p.failure(s.Error)
		}
		if info := s.Info; info != nil {
			p.field("Subject", info.Subject)
			p.field("Issuer", info.Issuer)
			p.field("Valid from", info.NotBefore)
			p.field("Valid until", info.NotAfter)
			expiry := okColor
			if info.DaysUntilExpiry < 30 {
				expiry = warnColor
			}
			p.printf(keyColor, "  %-16s", "Expires in:")
			p.printf(expiry, " %d days\n", info.DaysUntilExpiry)
			p.field("TLS", info.TLSVersion+" "+info.CipherSuite)
			p.list("SANs", info.SubjectAltNames)
			for _, finding := range info.ValidationErrors {
				p.printf(warnColor, "  ! %s\n", finding)
			}
		}
	}

	if s := rep.Hosting; s != nil {
		p.header("Hosting")
		if s.Error != "" {
			p.failure(s.Error)
		}
		for _, h := range s.Hosts {
			p.field("Address", h.IPAddress+" ("+h.Version+")")
			p.list("Reverse DNS", h.ReverseDNSNames)
			if h.CountryName != "" {
				p.field("Location", strings.TrimPrefix(h.CityName+", "+h.CountryName, ", "))
			}
			if h.ASN != 0 {
				p.field("ASN", fmt.Sprintf("AS%d %s", h.ASN, h.ASOrganization))
			}
			if h.GeoError != "" {
				p.printf(warnColor, "  %s\n", h.GeoError)
			}
		}
	}

	if s := rep.Blacklist; s != nil {
		p.header("Blacklist")
		if s.Error != "" {
			p.failure(s.Error)
		}
		for _, r := range s.Results {
			switch {
			case r.Error != "":
				p.printf(warnColor, "  %-16s %s error: %s\n", r.IP, r.Zone, r.Error)
			case r.Listed:
				p.printf(errColor, "  %-16s LISTED on %s %s\n", r.IP, r.Zone, r.Reason)
			default:
				p.printf(okColor, "  %-16s clean on %s\n", r.IP, r.Zone)
			}
		}
	}

	if s := rep.Ping; s != nil {
		p.header("Ping")
		if st := s.Stats; st != nil {
			target := fmt.Sprintf("%s (icmp)", st.Host)
			if st.Backend == utils.PingBackendTCP {
				target = fmt.Sprintf("%s port %d (tcp connect)", st.Host, st.Port)
			}
			p.field("Target", target)
			p.field("Packets", fmt.Sprintf("%d sent, %d received, %.0f%% loss", st.Sent, st.Received, st.PacketLoss))
			if st.Received > 0 {
				p.field("RTT", fmt.Sprintf("min %s avg %s max %s", st.MinRTT, st.AvgRTT, st.MaxRTT))
			}
		}
		if s.Error != "" {
			p.failure(s.Error)
		}
	}

	if s := rep.Web; s != nil {
		p.header("Web")
		for _, hop := range s.Hops {
			p.printf(nil, "  %d %s\n", hop.StatusCode, hop.URL)
		}
		p.field("Final URL", s.FinalURL)
		if s.Error != "" {
			p.failure(s.Error)
		}
		for _, t := range s.Technologies {
			name := t.Name
			if t.Version != "" {
				name += " " + t.Version
			}
			p.field("Technology", name)
		}
	}

	return p.err
}

func writeWhois(p *printer, s *WhoisSection) {
	if s.Result == nil {
		return
	}
	p.field("Server", s.Result.Server)
	if sum := s.Summary; sum != nil {
		p.field("Registrar", sum.Registrar)
		p.field("Created", sum.CreationDate)
		p.field("Expires", sum.ExpirationDate)
		p.field("Updated", sum.UpdatedDate)
		p.list("Name servers", sum.NameServers)
		p.list("Status", sum.Status)
	}
}

// WriteWhoisLines prints the filtered WHOIS reply as-is, one line each.
func WriteWhoisLines(w io.Writer, res *domain.WhoisResult) error {
	for _, line := range res.Lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
