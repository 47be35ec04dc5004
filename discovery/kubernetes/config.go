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

package kubernetes

import (
	"github.com/tochemey/mongo-sidecar/internal/validation"
)

// Config represents the kubernetes provider configuration
type Config struct {
	// Namespace specifies the namespace to list pods in. Empty means every namespace.
	Namespace string
	// PodLabels specifies the labels every mongo pod carries
	PodLabels map[string]string
	// KubeConfig is the path of a kubeconfig file. The in-cluster configuration
	// is used when it is empty.
	KubeConfig string
}

// Validate checks whether the given discovery configuration is valid
func (x Config) Validate() error {
	return validation.
		New(validation.FailFast()).
		AddAssertion(len(x.PodLabels) > 0, "pod labels are required").
		Validate()
}
