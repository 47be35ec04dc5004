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

package validation

import (
	"fmt"
	"strings"

	k8svalidation "k8s.io/apimachinery/pkg/util/validation"
)

// DNSLabelValidator checks that a value is a valid RFC 1123 label, which is
// what Kubernetes requires for service names.
type DNSLabelValidator struct {
	name  string
	value string
}

var _ Validator = (*DNSLabelValidator)(nil)

// NewDNSLabelValidator creates an instance of DNSLabelValidator
func NewDNSLabelValidator(name, value string) *DNSLabelValidator {
	return &DNSLabelValidator{name: name, value: value}
}

// Validate implements validation.Validator.
func (v *DNSLabelValidator) Validate() error {
	if violations := k8svalidation.IsDNS1123Label(v.value); len(violations) > 0 {
		return fmt.Errorf("the [%s] is invalid: %s", v.name, strings.Join(violations, "; "))
	}
	return nil
}

// DNSSubdomainValidator checks that a value is a valid RFC 1123 subdomain,
// such as a cluster domain.
type DNSSubdomainValidator struct {
	name  string
	value string
}

var _ Validator = (*DNSSubdomainValidator)(nil)

// NewDNSSubdomainValidator creates an instance of DNSSubdomainValidator
func NewDNSSubdomainValidator(name, value string) *DNSSubdomainValidator {
	return &DNSSubdomainValidator{name: name, value: value}
}

// Validate implements validation.Validator.
func (v *DNSSubdomainValidator) Validate() error {
	if violations := k8svalidation.IsDNS1123Subdomain(v.value); len(violations) > 0 {
		return fmt.Errorf("the [%s] is invalid: %s", v.name, strings.Join(violations, "; "))
	}
	return nil
}
