//go:build linux
// +build linux

package mount

func mountArgv(device, target string) []string {
	return []string{"mount", "-o", "ro", device, target}
}

func umountArgv(target string) []string {
	return []string{"umount", target}
}
