// Package pgpkey loads the OpenPGP signing key and registers it with gpg.
package pgpkey

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Lessica/lessica.github.io/internal/domain"
	"github.com/Lessica/lessica.github.io/internal/ports"
	"github.com/ProtonMail/go-crypto/openpgp"
)

// Parse reads an armored private key and decrypts it with passphrase when needed.
func Parse(armored, passphrase string) (*openpgp.Entity, error) {
	if strings.TrimSpace(armored) == "" {
		return nil, signingErr("pgpkey.parse", fmt.Errorf("no private key provided: %w", domain.ErrSigning))
	}

	el, err := openpgp.ReadArmoredKeyRing(strings.NewReader(armored))
	if err != nil {
		return nil, signingErr("pgpkey.parse", fmt.Errorf("%w: %w", domain.ErrSigning, err))
	}
	if len(el) == 0 {
		return nil, signingErr("pgpkey.parse", fmt.Errorf("key ring is empty: %w", domain.ErrSigning))
	}

	e := el[0]
	if e.PrivateKey == nil {
		return nil, signingErr("pgpkey.parse", fmt.Errorf("key %s has no private part: %w", e.PrimaryKey.KeyIdString(), domain.ErrSigning))
	}

	if e.PrivateKey.Encrypted {
		if passphrase == "" {
			return nil, signingErr("pgpkey.decrypt", fmt.Errorf("key is encrypted and no passphrase was given: %w", domain.ErrSigning))
		}
		if err := e.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
			return nil, signingErr("pgpkey.decrypt", fmt.Errorf("%w: %w", domain.ErrSigning, err))
		}
	}
	for _, sk := range e.Subkeys {
		if sk.PrivateKey != nil && sk.PrivateKey.Encrypted {
			if err := sk.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
				return nil, signingErr("pgpkey.decrypt", fmt.Errorf("subkey %s: %w: %w", sk.PublicKey.KeyIdString(), domain.ErrSigning, err))
			}
		}
	}
	return e, nil
}

// Describe derives the identifiers git and gpg use for e.
func Describe(e *openpgp.Entity) domain.SigningKey {
	key := domain.SigningKey{
		KeyID:       strings.ToUpper(e.PrimaryKey.KeyIdString()),
		Fingerprint: fmt.Sprintf("%X", e.PrimaryKey.Fingerprint),
	}
	if id := e.PrimaryIdentity(); id != nil {
		key.UserID = id.Name
	}
	return key
}

// Importer validates the key and, in gpg mode, imports it into the local keyring.
type Importer struct {
	runner ports.CommandRunner
	mode   domain.KeyringMode
	gpg    string
}

func NewImporter(runner ports.CommandRunner, mode domain.KeyringMode, gpgProgram string) *Importer {
	if gpgProgram == "" {
		gpgProgram = "gpg"
	}
	return &Importer{runner: runner, mode: mode, gpg: gpgProgram}
}

var _ ports.KeyImporter = (*Importer)(nil)

func (i *Importer) Import(ctx context.Context, armored, passphrase string) (domain.SigningKey, error) {
	e, err := Parse(armored, passphrase)
	if err != nil {
		return domain.SigningKey{}, err
	}

	key := Describe(e)
	key.Armored = armored
	key.Passphrase = passphrase

	if i.mode != domain.KeyringGPG {
		return key, nil
	}

	args := []string{"--batch", "--yes"}
	if passphrase != "" {
		pf, cleanup, err := passphraseFile(passphrase)
		if err != nil {
			return domain.SigningKey{}, &domain.OpError{Op: "pgpkey.import", Kind: domain.KindExecution, Err: err}
		}
		defer cleanup()
		args = append(args, "--pinentry-mode", "loopback", "--passphrase-file", pf)
	}
	args = append(args, "--import")

	if _, err := i.runner.Run(ctx, domain.Command{Name: i.gpg, Args: args, Stdin: armored}); err != nil {
		return domain.SigningKey{}, err
	}
	return key, nil
}

func passphraseFile(passphrase string) (string, func(), error) {
	f, err := os.CreateTemp("", "devkit-pass-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	if _, err := f.WriteString(passphrase); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return f.Name(), cleanup, nil
}

func signingErr(op string, err error) error {
	return &domain.OpError{Op: op, Kind: domain.KindSigning, Err: err}
}
