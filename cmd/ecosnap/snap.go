package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ecosnap/ecosnap/internal/camera"
	"github.com/ecosnap/ecosnap/internal/imaging"
)

func snapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snap",
		Short: "Capture a photo from the camera and classify it",
		Long: `Snap opens the configured camera device, captures a single frame,
classifies it, and prints disposal guidance.`,
		RunE: runSnap,
	}

	cmd.Flags().IntP("device", "d", -1, "Camera device index (overrides config)")
	cmd.Flags().StringP("output", "o", "", "Also write the captured frame to this file")
	cmd.Flags().Bool("save", false, "Save the result to history")
	cmd.Flags().Bool("json", false, "Print the result as JSON")

	return cmd
}

func runSnap(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	save, _ := cmd.Flags().GetBool("save")
	asJSON, _ := cmd.Flags().GetBool("json")
	output, _ := cmd.Flags().GetString("output")

	deviceID, _ := cmd.Flags().GetInt("device")
	if deviceID < 0 {
		deviceID = viper.GetInt("camera.device")
	}

	img, err := captureFrame(deviceID)
	if err != nil {
		return err
	}

	if output != "" {
		if err := os.WriteFile(output, img.Data, 0o644); err != nil {
			return fmt.Errorf("writing captured frame: %w", err)
		}
		slog.Info("captured frame written", "path", output)
	}

	eng, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := eng.SelectImage(img); err != nil {
		return err
	}

	if err := classifyWithSpinner(ctx, eng); err != nil {
		return err
	}

	if save {
		if err := eng.Save(ctx); err != nil {
			return err
		}
	}

	return printResult(eng.Session(), asJSON, save)
}

// captureFrame opens the device, waits for it to warm up, grabs one
// frame, and encodes it for transport.
func captureFrame(deviceID int) (imaging.TransportImage, error) {
	manager := camera.NewManager(camera.OpenDevice)
	defer manager.Shutdown()

	session, err := manager.Open(deviceID)
	if err != nil {
		return imaging.TransportImage{}, fmt.Errorf("opening camera %d: %w", deviceID, err)
	}
	defer manager.Close(session)

	frame, err := manager.Capture(session)
	if err != nil {
		return imaging.TransportImage{}, fmt.Errorf("capturing frame: %w", err)
	}

	return imaging.EncodeFrame(frame)
}
