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

package election

import (
	"fmt"
	"slices"

	"github.com/hashicorp/go-sockaddr"

	"github.com/tochemey/mongo-sidecar/discovery"
	serrors "github.com/tochemey/mongo-sidecar/errors"
)

// LowestIP elects the pod with the numerically smallest IPv4 address.
// Pods without a parsable IPv4 address are not candidates.
type LowestIP struct{}

// enforce compilation error
var _ Elector = LowestIP{}

type candidate struct {
	pod     *discovery.Pod
	address sockaddr.IPv4Address
}

// Elect implements Elector
func (LowestIP) Elect(pods []*discovery.Pod) (*discovery.Pod, error) {
	candidates := make([]candidate, 0, len(pods))
	for _, pod := range pods {
		if pod == nil {
			continue
		}
		address, err := ToUint32(pod.IP)
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{pod: pod, address: sockaddr.IPv4Address(address)})
	}

	if len(candidates) == 0 {
		return nil, serrors.ErrNoElectionCandidate
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case a.address < b.address:
			return -1
		case a.address > b.address:
			return 1
		default:
			return 0
		}
	})
	return candidates[0].pod, nil
}

// ToUint32 converts a dotted IPv4 address into its 32-bit integer form
func ToUint32(ip string) (uint32, error) {
	if ip == "" {
		return 0, fmt.Errorf("%w: empty address", serrors.ErrInvalidIP)
	}

	addr, err := sockaddr.NewIPv4Addr(ip)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", serrors.ErrInvalidIP, ip, err)
	}
	return uint32(addr.Address), nil
}
