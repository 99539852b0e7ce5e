package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/BoxPack/internal/model"
)

// DefaultInventoryPath returns the default file path for the box inventory.
// This is located at ~/.boxpack/boxes.json.
func DefaultInventoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".boxpack", "boxes.json"), nil
}

// SaveInventory writes the inventory to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveInventory(path string, inv model.BoxInventory) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadInventory reads the inventory from the specified JSON file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.BoxInventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := model.DefaultBoxInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return model.BoxInventory{}, err
	}
	var inv model.BoxInventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.BoxInventory{}, fmt.Errorf("failed to parse inventory: %w", err)
	}
	return inv, nil
}

// LoadOrCreateInventory loads the inventory from path, or from the default
// location when path is empty. The resolved path is returned.
func LoadOrCreateInventory(path string) (model.BoxInventory, string, error) {
	if path == "" {
		p, err := DefaultInventoryPath()
		if err != nil {
			return model.DefaultBoxInventory(), "", err
		}
		path = p
	}
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory merges the boxes from the JSON file at path into existing.
// Boxes whose ID or name is already present are skipped.
func ImportInventory(path string, existing model.BoxInventory) (model.BoxInventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.BoxInventory
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, fmt.Errorf("failed to parse inventory: %w", err)
	}

	merged := model.BoxInventory{Boxes: append([]model.BoxPreset(nil), existing.Boxes...)}
	for _, b := range imported.Boxes {
		if merged.FindByID(b.ID) != nil || merged.FindByName(b.Name) != nil {
			continue
		}
		merged.Boxes = append(merged.Boxes, b)
	}
	return merged, nil
}
