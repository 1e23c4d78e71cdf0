//go:build darwin
// +build darwin

package mount

func mountArgv(device, target string) []string {
	return []string{"mount", "-o", "rdonly", device, target}
}

func umountArgv(target string) []string {
	return []string{"umount", target}
}
