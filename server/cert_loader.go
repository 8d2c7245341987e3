package server

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// defaultCertCheckInterval bounds how often the certificate files are
// stat'ed for changes.
const defaultCertCheckInterval = time.Minute

// CertLoader serves a TLS certificate from disk and picks up replacements
// without a restart.
type CertLoader struct {
	certFile      string
	keyFile       string
	checkInterval time.Duration
	logger        *slog.Logger

	mu        sync.Mutex
	cert      *tls.Certificate
	loadedAt  time.Time
	lastCheck time.Time
}

// NewCertLoader loads the key pair and returns a CertLoader for it.
func NewCertLoader(certFile, keyFile string, logger *slog.Logger) (*CertLoader, error) {
	l := &CertLoader{
		certFile:      certFile,
		keyFile:       keyFile,
		checkInterval: defaultCertCheckInterval,
		logger:        logger.With("component", "tls"),
	}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

// GetCertificate implements tls.Config.GetCertificate. When the files have
// changed since the last load they are read again; on any error the
// current certificate keeps being served.
func (l *CertLoader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCheck) < l.checkInterval {
		return l.cert, nil
	}
	l.lastCheck = time.Now()

	if l.changed() {
		if err := l.load(); err != nil {
			l.logger.Error("failed to reload certificate", "error", err)
		}
	}
	return l.cert, nil
}

// changed reports whether either file is newer than the loaded pair.
func (l *CertLoader) changed() bool {
	for _, path := range []string{l.certFile, l.keyFile} {
		info, err := os.Stat(path)
		if err != nil {
			l.logger.Error("failed to stat certificate file", "path", path, "error", err)
			return false
		}
		if info.ModTime().After(l.loadedAt) {
			return true
		}
	}
	return false
}

func (l *CertLoader) load() error {
	cert, err := tls.LoadX509KeyPair(l.certFile, l.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load key pair: %w", err)
	}

	l.cert = &cert
	l.loadedAt = time.Now()
	l.logger.Info("loaded tls certificate", "cert", l.certFile, "key", l.keyFile)
	return nil
}
