package domain

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const defaultTLSPort = 443

type SSLInfo struct {
	Host               string            `json:"host"`
	Port               int               `json:"port"`
	IsValid            bool              `json:"is_valid"`
	Issuer             string            `json:"issuer"`
	Subject            string            `json:"subject"`
	SerialNumber       string            `json:"serial_number"`
	NotBefore          time.Time         `json:"not_before"`
	NotAfter           time.Time         `json:"not_after"`
	DaysUntilExpiry    int               `json:"days_until_expiry"`
	SubjectAltNames    []string          `json:"subject_alt_names"`
	SignatureAlgorithm string            `json:"signature_algorithm"`
	PublicKeyAlgorithm string            `json:"public_key_algorithm"`
	KeySize            int               `json:"key_size"`
	IsSelfSigned       bool              `json:"is_self_signed"`
	IsWildcard         bool              `json:"is_wildcard"`
	CertificateChain   []CertificateInfo `json:"certificate_chain"`
	TLSVersion         string            `json:"tls_version"`
	CipherSuite        string            `json:"cipher_suite"`
	ValidationErrors   []string          `json:"validation_errors,omitempty"`
	QueryTime          time.Time         `json:"query_time"`
}

type CertificateInfo struct {
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
	IsCA      bool      `json:"is_ca"`
	KeyUsage  []string  `json:"key_usage,omitempty"`
}

type SSLError struct {
	Host string
	Err  error
}

func (e *SSLError) Error() string {
	return fmt.Sprintf("SSL check failed for %s: %v", e.Host, e.Err)
}

func (e *SSLError) Unwrap() error { return e.Err }

// GetSSLInfo connects to host:port (443 when port <= 0) and describes the
// presented certificate. Verification is skipped on purpose so that expired or
// mismatched certificates can still be reported; problems are listed in
// ValidationErrors instead.
func GetSSLInfo(ctx context.Context, host string, port int, timeout time.Duration) (*SSLInfo, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return nil, &SSLError{Host: host, Err: fmt.Errorf("host cannot be empty")}
	}
	if port <= 0 {
		port = defaultTLSPort
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: timeout},
		Config: &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: true,
		},
	}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, &SSLError{Host: host, Err: err}
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return nil, &SSLError{Host: host, Err: fmt.Errorf("no certificates presented")}
	}
	leaf := state.PeerCertificates[0]
	now := time.Now()

	info := &SSLInfo{
		Host:               host,
		Port:               port,
		Issuer:             leaf.Issuer.String(),
		Subject:            leaf.Subject.String(),
		SerialNumber:       leaf.SerialNumber.String(),
		NotBefore:          leaf.NotBefore,
		NotAfter:           leaf.NotAfter,
		DaysUntilExpiry:    int(leaf.NotAfter.Sub(now).Hours() / 24),
		SubjectAltNames:    subjectAltNames(leaf),
		SignatureAlgorithm: leaf.SignatureAlgorithm.String(),
		PublicKeyAlgorithm: leaf.PublicKeyAlgorithm.String(),
		KeySize:            keySize(leaf),
		IsSelfSigned:       leaf.Issuer.String() == leaf.Subject.String(),
		TLSVersion:         tls.VersionName(state.Version),
		CipherSuite:        tls.CipherSuiteName(state.CipherSuite),
		QueryTime:          now,
	}
	for _, name := range leaf.DNSNames {
		if strings.HasPrefix(name, "*.") {
			info.IsWildcard = true
			break
		}
	}

	info.ValidationErrors = certificateFindings(leaf, host, now)
	info.IsValid = now.After(leaf.NotBefore) && now.Before(leaf.NotAfter) && leaf.VerifyHostname(host) == nil

	for _, cert := range state.PeerCertificates {
		info.CertificateChain = append(info.CertificateChain, CertificateInfo{
			Subject:   cert.Subject.String(),
			Issuer:    cert.Issuer.String(),
			NotBefore: cert.NotBefore,
			NotAfter:  cert.NotAfter,
			IsCA:      cert.IsCA,
			KeyUsage:  keyUsage(cert),
		})
	}
	return info, nil
}

func subjectAltNames(cert *x509.Certificate) []string {
	names := append([]string(nil), cert.DNSNames...)
	for _, ip := range cert.IPAddresses {
		names = append(names, ip.String())
	}
	return names
}

func certificateFindings(cert *x509.Certificate, host string, now time.Time) []string {
	var findings []string
	if now.After(cert.NotAfter) {
		findings = append(findings, "certificate has expired")
	}
	if now.Before(cert.NotBefore) {
		findings = append(findings, "certificate is not yet valid")
	}
	if err := cert.VerifyHostname(host); err != nil {
		findings = append(findings, "certificate does not match host")
	}
	if len(cert.CRLDistributionPoints) == 0 && len(cert.OCSPServer) == 0 {
		findings = append(findings, "no revocation checking mechanism available")
	}
	return findings
}

func keySize(cert *x509.Certificate) int {
	switch pub := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		return pub.N.BitLen()
	case *ecdsa.PublicKey:
		return pub.Curve.Params().BitSize
	case ed25519.PublicKey:
		return 256
	default:
		return 0
	}
}

var keyUsageNames = []struct {
	bit  x509.KeyUsage
	name string
}{
	{x509.KeyUsageDigitalSignature, "Digital Signature"},
	{x509.KeyUsageContentCommitment, "Content Commitment"},
	{x509.KeyUsageKeyEncipherment, "Key Encipherment"},
	{x509.KeyUsageDataEncipherment, "Data Encipherment"},
	{x509.KeyUsageKeyAgreement, "Key Agreement"},
	{x509.KeyUsageCertSign, "Certificate Signing"},
	{x509.KeyUsageCRLSign, "CRL Signing"},
}

func keyUsage(cert *x509.Certificate) []string {
	var usage []string
	for _, ku := range keyUsageNames {
		if cert.KeyUsage&ku.bit != 0 {
			usage = append(usage, ku.name)
		}
	}
	return usage
}
