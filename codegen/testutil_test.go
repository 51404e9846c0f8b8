package codegen

import "os"

func writeFixtureFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
