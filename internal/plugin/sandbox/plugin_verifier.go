package sandbox

import (
	"crypto/x509"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// SecurityIssue represents a security issue found in a plugin
type SecurityIssue struct {
	Type        string
	Description string
	Severity    string
	Location    string
}

// VerificationResult represents the result of plugin verification
type VerificationResult struct {
	Verified bool
	Issues   []SecurityIssue
}

// SignatureVerifier verifies digital signatures of plugins
type SignatureVerifier struct {
	TrustedCertificates []*x509.Certificate
	Logger              *zap.Logger
}

// NewSignatureVerifier creates a new signature verifier
func NewSignatureVerifier(logger *zap.Logger) *SignatureVerifier {
	return &SignatureVerifier{
		TrustedCertificates: []*x509.Certificate{},
		Logger:              logger,
	}
}

// AddTrustedCertificate adds a trusted certificate
func (v *SignatureVerifier) AddTrustedCertificate(cert *x509.Certificate) {
	v.TrustedCertificates = append(v.TrustedCertificates, cert)
}

// VerifySignature verifies the digital signature of a plugin
func (v *SignatureVerifier) VerifySignature(pluginPath string) error {
	// In a real implementation, this would verify the digital signature
	// using the trusted certificates
	
	// For now, just log that we would verify the signature
	v.Logger.Debug("Verifying plugin signature",
		zap.String("plugin_path", pluginPath))
	
	return nil
}

// VulnerabilityScanner scans plugins for security vulnerabilities
type VulnerabilityScanner struct {
	ScanPatterns []string
	Logger       *zap.Logger
}

// NewVulnerabilityScanner creates a new vulnerability scanner
func NewVulnerabilityScanner(logger *zap.Logger) *VulnerabilityScanner {
	return &VulnerabilityScanner{
		ScanPatterns: []string{
			"eval\\(",                // Dangerous eval usage
			"exec\\(",                // Command execution
			"os\\.Open\\(\".*/",      // Absolute path file access
			"net\\.Dial\\(",          // Network access
			"unsafe\\.",              // Unsafe package usage
			"runtime\\.SetFinalizer", // Runtime manipulation
		},
		Logger: logger,
	}
}

// ScanPlugin scans a plugin for security vulnerabilities
func (s *VulnerabilityScanner) ScanPlugin(pluginPath string) ([]SecurityIssue, error) {
	// In a real implementation, this would scan the plugin binary or source
	// for security vulnerabilities using static analysis tools
	
	// For now, just log that we would scan the plugin
	s.Logger.Debug("Scanning plugin for vulnerabilities",
		zap.String("plugin_path", pluginPath))
	
	// Return empty issues list (no issues found)
	return []SecurityIssue{}, nil
}

// PluginVerifier verifies the integrity and security of plugins
type PluginVerifier struct {
	// Verification methods
	SignatureVerifier     *SignatureVerifier
	VulnerabilityScanner  *VulnerabilityScanner
	
	// Verification policies
	RequireSignature       bool
	ScanForVulnerabilities bool
	
	// Trusted sources
	TrustedPublishers     []string
	
	// Cache of verified plugins
	verifiedPlugins       map[string]bool
	mu                    sync.RWMutex
	
	Logger                *zap.Logger
}

// NewPluginVerifier creates a new plugin verifier
func NewPluginVerifier(logger *zap.Logger) *PluginVerifier {
	return &PluginVerifier{
		SignatureVerifier:     NewSignatureVerifier(logger),
		VulnerabilityScanner:  NewVulnerabilityScanner(logger),
		RequireSignature:      true,
		ScanForVulnerabilities: true,
		TrustedPublishers:     []string{},
		verifiedPlugins:       make(map[string]bool),
		Logger:                logger,
	}
}

// WithSignatureVerification sets whether signature verification is required
func (v *PluginVerifier) WithSignatureVerification(required bool) *PluginVerifier {
	v.RequireSignature = required
	return v
}

// WithVulnerabilityScanning sets whether vulnerability scanning is performed
func (v *PluginVerifier) WithVulnerabilityScanning(enabled bool) *PluginVerifier {
	v.ScanForVulnerabilities = enabled
	return v
}

// AddTrustedPublisher adds a trusted publisher
func (v *PluginVerifier) AddTrustedPublisher(publisher string) {
	v.TrustedPublishers = append(v.TrustedPublishers, publisher)
}

// VerifyPlugin verifies a plugin before loading
func (v *PluginVerifier) VerifyPlugin(pluginPath string) (*VerificationResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	
	// Check if already verified
	if verified, exists := v.verifiedPlugins[pluginPath]; exists && verified {
		return &VerificationResult{Verified: true, Issues: nil}, nil
	}
	
	v.Logger.Info("Verifying plugin",
		zap.String("plugin_path", pluginPath),
		zap.Bool("require_signature", v.RequireSignature),
		zap.Bool("scan_vulnerabilities", v.ScanForVulnerabilities))
	
	// Check if file exists
	if _, err := os.Stat(pluginPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("plugin file does not exist: %s", pluginPath)
	}
	
	// Check digital signature
	if v.RequireSignature {
		if err := v.SignatureVerifier.VerifySignature(pluginPath); err != nil {
			v.Logger.Warn("Signature verification failed",
				zap.String("plugin_path", pluginPath),
				zap.Error(err))
			return nil, fmt.Errorf("signature verification failed: %w", err)
		}
	}
	
	// Scan for vulnerabilities
	var issues []SecurityIssue
	if v.ScanForVulnerabilities {
		var err error
		issues, err = v.VulnerabilityScanner.ScanPlugin(pluginPath)
		if err != nil {
			v.Logger.Warn("Vulnerability scan failed",
				zap.String("plugin_path", pluginPath),
				zap.Error(err))
			return nil, fmt.Errorf("vulnerability scan failed: %w", err)
		}
		
		if len(issues) > 0 {
			v.Logger.Warn("Security issues found in plugin",
				zap.String("plugin_path", pluginPath),
				zap.Int("issue_count", len(issues)))
			
			// Return issues but don't mark as verified
			return &VerificationResult{
				Verified: false,
				Issues:   issues,
			}, nil
		}
	}
	
	// Mark as verified
	v.verifiedPlugins[pluginPath] = true
	
	v.Logger.Info("Plugin verified successfully",
		zap.String("plugin_path", pluginPath))
	
	return &VerificationResult{
		Verified: true,
		Issues:   nil,
	}, nil
}

// IsPluginVerified checks if a plugin is verified
func (v *PluginVerifier) IsPluginVerified(pluginPath string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	
	verified, exists := v.verifiedPlugins[pluginPath]
	return exists && verified
}

// CalculatePluginChecksum calculates a checksum for a plugin file
func CalculatePluginChecksum(pluginPath string) (string, error) {
	// Open the file
	file, err := os.Open(pluginPath)
	if err != nil {
		return "", fmt.Errorf("failed to open plugin file: %w", err)
	}
	defer file.Close()
	
	// In a real implementation, this would calculate a cryptographic hash
	// of the file contents
	
	// For now, just return a placeholder
	return "checksum-placeholder", nil
}
