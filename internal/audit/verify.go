package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// VerifyLogIntegrity re-computes the hash chain of an exchange log.
// Any mismatch indicates tampering or corruption.
func VerifyLogIntegrity(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var prevHash string
	line := 0

	for scanner.Scan() {
		line++

		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return fmt.Errorf("line %d: invalid log entry format", line)
		}

		if e.PrevHash != prevHash {
			return fmt.Errorf("line %d: hash chain broken (prev hash mismatch)", line)
		}

		if e.Hash != computeHash(e) {
			return fmt.Errorf("line %d: hash mismatch (entry tampered)", line)
		}

		prevHash = e.Hash
	}

	return scanner.Err()
}
