package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/JonMunkholm/userdesk/internal/core"
)

// PrintError writes a failed command's error to w. Known failures are shown
// with their support code and the technical error goes to the debug log;
// anything else, usage errors included, is printed as is.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	if !core.IsUserFacing(err) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	uerr := core.NewUserError(err)
	slog.Debug("command failed", "error", uerr.Unwrap(), "code", uerr.User.Code)
	fmt.Fprintf(w, "Error: %s\n", core.FormatUserError(err))
}
