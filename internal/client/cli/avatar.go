package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/netx"
	"github.com/spf13/cobra"
)

const maxAvatarBytes = 5 << 20

var uploadToPresignedURL = netx.UploadToPresignedURL

func (a *App) avatarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <image-file>",
		Short: "Upload a profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(data) > maxAvatarBytes {
				return fmt.Errorf("%s is larger than %d bytes", args[0], maxAvatarBytes)
			}

			return a.withClient(cmd, func(ctx context.Context, c client.Client) error {
				up, err := c.AvatarUploadURL(ctx)
				if err != nil {
					return err
				}
				if err := uploadToPresignedURL(ctx, up.UploadURL, http.DetectContentType(data), data); err != nil {
					return err
				}

				image := up.ObjectURL
				if _, err := c.UpdateProfile(ctx, api.ProfileUpdate{Image: &image}); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Avatar set to %s\n", image)
				return nil
			})
		},
	}
}
