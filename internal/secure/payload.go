// Package secure keeps raw secret material out of ordinary Go memory.
//
// Env files read from disk contain every credential in plaintext, so the
// raw bytes are moved into a memguard enclave (encrypted at rest, mlocked
// where the platform allows) immediately after reading, and only exposed
// through a scoped callback that wipes the plaintext again on return.
//
// memguard wipes the source slice when the enclave is created, and
// memguard.Purge in main covers anything still live at exit. None of this
// defends against a root-level attacker on the same host; it keeps secrets
// out of swap and core dumps.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Payload is an encrypted in-memory copy of sensitive bytes, typically a
// whole env file.
type Payload struct {
	mu        sync.Mutex
	enclave   *memguard.Enclave
	destroyed bool
}

// Protect seals data into a new Payload. The source slice is wiped by
// memguard as a side effect, so callers must not reuse it.
func Protect(data []byte) *Payload {
	return &Payload{enclave: memguard.NewEnclave(data)}
}

// With decrypts the payload and passes the plaintext to fn. The plaintext
// buffer is destroyed when fn returns, on panic included; fn must not
// retain the slice.
func (p *Payload) With(fn func(data []byte) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return fn(nil)
	}
	locked, err := p.enclave.Open()
	if err != nil {
		return err
	}
	defer locked.Destroy()
	return fn(locked.Bytes())
}

// Destroy makes the payload unusable. Idempotent; the enclave's encrypted
// pages are left to memguard.Purge at exit.
func (p *Payload) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enclave = nil
	p.destroyed = true
}

// Purge wipes every memguard allocation in the process. Deferred from
// main.
func Purge() {
	memguard.Purge()
}
