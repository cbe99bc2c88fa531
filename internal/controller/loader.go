package controller

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/talonwallet/talon-desktop/internal/psbtops"
)

// PayloadSource selects where LoadPSBT pulls the candidate transaction from.
type PayloadSource int

const (
	SourceClipboard PayloadSource = iota
	SourceFile
)

// MaxPSBTFileSize caps how large a file LoadPSBT will read. Files at or above
// the cap are rejected without being opened.
const MaxPSBTFileSize = 100 * 1024 * 1024

// LoadPSBT ingests a partially signed transaction from the clipboard or from
// a user-picked file and hands the decoded packet to the transaction editor.
// Each failure emits exactly one error message; a dismissed file dialog is a
// silent no-op.
func (m *Manager) LoadPSBT(source PayloadSource) error {
	var raw []byte
	switch source {
	case SourceClipboard:
		text := strings.TrimSpace(m.collab.Clipboard.Text())
		decoded, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			m.logger.Warn().Err(err).Msg("clipboard payload is not base64")
			m.emitMessage(Message{
				Title:    "Error",
				Body:     "Unable to decode PSBT from clipboard (invalid base64)",
				Severity: SeverityError,
			})
			return ErrInvalidBase64
		}
		raw = decoded
	case SourceFile:
		path, ok := m.collab.FileDialog.OpenFile("Load Transaction Data", "Partially Signed Transaction (*.psbt)")
		if !ok {
			return nil
		}
		info, err := m.fs.Stat(path)
		if err != nil {
			m.emitMessage(Message{
				Title:    "Error",
				Body:     "Unable to open PSBT file " + path,
				Severity: SeverityError,
			})
			return fmt.Errorf("failed to stat psbt file: %w", err)
		}
		if info.Size() >= MaxPSBTFileSize {
			m.logger.Warn().Int64("size", info.Size()).Str("path", path).Msg("rejected oversized psbt file")
			m.emitMessage(Message{
				Title:    "Error",
				Body:     "PSBT file must be smaller than 100 MiB",
				Severity: SeverityError,
			})
			return ErrPSBTFileTooLarge
		}
		data, err := afero.ReadFile(m.fs, path)
		if err != nil {
			m.emitMessage(Message{
				Title:    "Error",
				Body:     "Unable to open PSBT file " + path,
				Severity: SeverityError,
			})
			return fmt.Errorf("failed to read psbt file: %w", err)
		}
		raw = data
	default:
		return fmt.Errorf("unknown payload source %d", source)
	}

	packet, err := psbtops.Decode(raw)
	if err != nil {
		decodeErr := &DecodeError{Detail: err.Error()}
		m.emitMessage(Message{
			Title:    "Error",
			Body:     "Unable to decode PSBT\n" + decodeErr.Detail,
			Severity: SeverityError,
		})
		return decodeErr
	}

	m.logger.Info().Str("txid", packet.UnsignedTx.TxHash().String()).Msg("loaded psbt")
	if m.collab.Editor != nil {
		m.collab.Editor.OpenPSBT(packet)
	}
	return nil
}
