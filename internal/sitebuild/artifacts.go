package sitebuild

import "github.com/solardome/sitebuild/internal/output"

func writeArtifactChecksums(checksumsPath string, artifactPaths []string) error {
	return output.WriteChecksums(checksumsPath, artifactPaths)
}

func writeManifest(path string, result Result) error {
	return output.WriteJSON(path, result)
}
