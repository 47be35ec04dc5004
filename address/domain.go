// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package address

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"

	"github.com/tochemey/mongo-sidecar/log"
)

// ResolvConf is the resolver configuration read by DomainVerifier
const ResolvConf = "/etc/resolv.conf"

// ReverseLookup returns the names pointing at the given address
type ReverseLookup func(ctx context.Context, addr string) ([]string, error)

// DomainVerifier checks that the configured cluster domain matches the
// domain of the cluster DNS server. A mismatch produces stable addresses
// nobody can resolve, which is worth a warning at startup.
type DomainVerifier struct {
	resolvConf string
	lookup     ReverseLookup
	logger     log.Logger
}

// NewDomainVerifier creates a DomainVerifier reading the system resolver configuration
func NewDomainVerifier(logger log.Logger) *DomainVerifier {
	return &DomainVerifier{
		resolvConf: ResolvConf,
		lookup:     net.DefaultResolver.LookupAddr,
		logger:     logger,
	}
}

// Verify reverse-resolves the first configured DNS server and reports whether
// one of its names ends with clusterDomain. Mismatches are logged as warnings,
// never returned as errors: the sidecar keeps running with the configured domain.
func (v *DomainVerifier) Verify(ctx context.Context, clusterDomain string) bool {
	config, err := dns.ClientConfigFromFile(v.resolvConf)
	if err != nil || len(config.Servers) == 0 {
		v.logger.Debugf("cannot read the DNS servers to verify cluster domain %q", clusterDomain)
		return false
	}

	server := config.Servers[0]
	names, err := v.lookup(ctx, server)
	if err != nil || len(names) == 0 {
		v.logger.Warnf("Possibly wrong cluster domain name! Could not reverse-resolve DNS server %s to verify %q", server, clusterDomain)
		return false
	}

	for _, name := range names {
		if strings.HasSuffix(strings.TrimSuffix(name, "."), clusterDomain) {
			v.logger.Infof("The cluster domain %q was successfully verified", clusterDomain)
			return true
		}
	}

	v.logger.Warn(fmt.Sprintf("Possibly wrong cluster domain name! Detected %q but expected similar to: %s",
		clusterDomain, strings.Join(names, ", ")))
	return false
}
