package stub

import "runtime"

func isWindowsHost() bool {
	return runtime.GOOS == "windows"
}
