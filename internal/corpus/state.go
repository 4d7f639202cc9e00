package corpus

import (
	"os"

	"ecmafuzz/internal/codec"
)

// ExportState serializes every program currently in the corpus using the
// external wire codec.
func (c *Corpus) ExportState() ([]byte, error) {
	return codec.EncodeRing(c.Programs())
}

// ImportState decodes data and replaces the corpus contents with it.
// Imported programs are treated as successful executions,
func (c *Corpus) ImportState(data []byte) error {
	programs, err := codec.DecodeRing(data)
	if err != nil {
		return err
	}
	c.ReplaceAll(programs)
	return nil
}

// ExportToFile writes ExportState's output to path.
func (c *Corpus) ExportToFile(path string) error {
	data, err := c.ExportState()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportFromFile reads path and calls ImportState with its contents.
func (c *Corpus) ImportFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.ImportState(data)
}
