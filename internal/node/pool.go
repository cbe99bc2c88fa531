package node

import (
	"sync"
	"time"
)

// ServerStatus describes one configured electrum server for the nodes page.
type ServerStatus struct {
	Address   string
	Connected bool
	TipHeight uint32
	LastSeen  time.Time
	LastError string
}

// Pool tracks the configured electrum servers and which of them the node is
// talking to. Connection attempts rotate through the list in order.
type Pool struct {
	mu      sync.Mutex
	order   []string
	status  map[string]*ServerStatus
	nextIdx int
}

// NewPool builds a pool from the configured server list, dropping duplicates
// but keeping the configured order.
func NewPool(servers []string) *Pool {
	p := &Pool{status: map[string]*ServerStatus{}}
	for _, server := range servers {
		if server == "" {
			continue
		}
		if _, ok := p.status[server]; ok {
			continue
		}
		p.order = append(p.order, server)
		p.status[server] = &ServerStatus{Address: server}
	}
	return p
}

// Servers returns the configured server addresses in order.
func (p *Pool) Servers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.order...)
}

// Next returns the next server to try. With an empty pool it returns "".
func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.order) == 0 {
		return ""
	}
	server := p.order[p.nextIdx%len(p.order)]
	p.nextIdx++
	return server
}

// MarkConnected flags server as the active connection.
func (p *Pool) MarkConnected(server string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.status[server]; ok {
		s.Connected = true
		s.LastSeen = time.Now()
		s.LastError = ""
	}
}

// MarkDisconnected clears the active flag of server.
func (p *Pool) MarkDisconnected(server string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.status[server]; ok {
		s.Connected = false
	}
}

// MarkFailed records a connection failure.
func (p *Pool) MarkFailed(server string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.status[server]; ok {
		s.Connected = false
		if err != nil {
			s.LastError = err.Error()
		}
	}
}

// MarkSeen records a header received through server.
func (p *Pool) MarkSeen(server string, height uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.status[server]; ok {
		s.LastSeen = time.Now()
		s.TipHeight = height
	}
}

// Status returns a copy of all server states in configured order.
func (p *Pool) Status() []ServerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	statuses := make([]ServerStatus, 0, len(p.order))
	for _, server := range p.order {
		statuses = append(statuses, *p.status[server])
	}
	return statuses
}
