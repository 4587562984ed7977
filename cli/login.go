// Package cli is the terminal front end of the auth client.
package cli

import (
	"context"
	"fmt"
	"io"

	"salesops-auth/authclient"
)

// Login signs the user in, resuming a stored session when the server still
// accepts it, and then enforces the password-change gate: while it is open
// the user either sets a new password or, with an empty answer, logs out.
func Login(ctx context.Context, ac *authclient.AuthContext, p Prompter, out io.Writer) error {
	gate := authclient.NewGate(ac)
	unsubscribe := ac.Subscribe(func(s authclient.Snapshot) { gate.Observe(s) })
	defer unsubscribe()

	if err := ac.Restore(ctx); err != nil {
		fmt.Fprintf(out, "Không thể khôi phục phiên đăng nhập: %v\n", err)
	}

	if ac.Snapshot().User == nil {
		if err := promptLogin(ctx, ac, p); err != nil {
			return err
		}
	}

	snap := ac.Snapshot()
	fmt.Fprintf(out, "Đã đăng nhập: %s (%s)\n", snap.User.Name, snap.User.Email)

	if !gate.Open() {
		return nil
	}
	return enforceChange(ctx, gate, p, out)
}

func promptLogin(ctx context.Context, ac *authclient.AuthContext, p Prompter) error {
	email, err := p.ReadLine("Email: ")
	if err != nil {
		return err
	}
	password, err := p.ReadSecret("Mật khẩu: ")
	if err != nil {
		return err
	}
	return ac.Login(ctx, email, password)
}

func enforceChange(ctx context.Context, gate *authclient.Gate, p Prompter, out io.Writer) error {
	fmt.Fprintln(out, "Bạn cần đổi mật khẩu trước khi tiếp tục. Để trống để đăng xuất.")

	for gate.Open() {
		newPassword, err := p.ReadSecret("Mật khẩu mới: ")
		if err != nil {
			return err
		}
		if newPassword == "" {
			if err := gate.Cancel(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "Đã đăng xuất.")
			return nil
		}

		confirm, err := p.ReadSecret("Nhập lại mật khẩu mới: ")
		if err != nil {
			return err
		}
		if confirm != newPassword {
			fmt.Fprintln(out, "Mật khẩu xác nhận không khớp.")
			continue
		}

		if err := gate.Submit(ctx, newPassword); err != nil {
			fmt.Fprintf(out, "Đổi mật khẩu thất bại: %v\n", err)
			continue
		}
		fmt.Fprintln(out, "Đổi mật khẩu thành công.")
	}

	return nil
}
