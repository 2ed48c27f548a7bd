// Package diagnostics reports on the external binaries the media
// center host needs: the shell that runs the desktop scripts, the
// volume mixer, and the optional streaming browser helper.
package diagnostics

import "os/exec"

var lookPath = exec.LookPath

type BinaryStatus struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

type DependencyReport struct {
	Powershell         BinaryStatus `json:"powershell"`
	Mixer              BinaryStatus `json:"mixer"`
	NBABrowser         BinaryStatus `json:"nba_browser"`
	AllRequiredPresent bool         `json:"all_required_present"`
}

// DetectDependencies probes the configured binaries on PATH. The NBA
// browser helper is optional and does not affect AllRequiredPresent.
func DetectDependencies(powershellBin, mixerBin, nbaBrowserBin string) DependencyReport {
	powershell := detectBinary(powershellBin)
	mixer := detectBinary(mixerBin)
	nba := detectBinary(nbaBrowserBin)

	return DependencyReport{
		Powershell:         powershell,
		Mixer:              mixer,
		NBABrowser:         nba,
		AllRequiredPresent: powershell.Found && mixer.Found,
	}
}

func detectBinary(name string) BinaryStatus {
	if name == "" {
		return BinaryStatus{Found: false}
	}
	path, err := lookPath(name)
	if err != nil {
		return BinaryStatus{Found: false}
	}

	return BinaryStatus{
		Found: true,
		Path:  path,
	}
}
