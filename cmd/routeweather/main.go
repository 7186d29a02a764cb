package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teja-rm/weather-route-map/internal/polyline"
	"github.com/teja-rm/weather-route-map/internal/routeweather"
)

func main() {
	godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "routeweather",
		Short: "Route weather service and polyline tools",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the route weather HTTP service",
		Run: func(cmd *cobra.Command, args []string) {
			routeweather.New().Start()
		},
	}

	decodeCmd := &cobra.Command{
		Use:   "decode [polyline]",
		Short: "Decode a flexible polyline to coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords, hdr, err := polyline.Decode(args[0])
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(coords, "", "  ")
			fmt.Printf("precision=%d thirdDim=%d thirdDimPrecision=%d\n",
				hdr.Precision, hdr.ThirdDim, hdr.ThirdDimPrecision)
			fmt.Println(string(out))
			return nil
		},
	}

	var precision uint8
	encodeCmd := &cobra.Command{
		Use:   "encode [lat,lng ...]",
		Short: "Encode lat,lng pairs as a flexible polyline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords := make([]polyline.Coordinate, 0, len(args))
			for _, arg := range args {
				var c polyline.Coordinate
				if _, err := fmt.Sscanf(strings.TrimSpace(arg), "%f,%f", &c.Lat, &c.Lng); err != nil {
					return fmt.Errorf("cannot parse coordinate %q: %w", arg, err)
				}
				coords = append(coords, c)
			}
			encoded, err := polyline.Encode(coords, precision, polyline.ThirdDimNone, 0)
			if err != nil {
				return err
			}
			fmt.Println(encoded)
			return nil
		},
	}
	encodeCmd.Flags().Uint8VarP(&precision, "precision", "p", 5, "decimal precision (0-15)")

	rootCmd.AddCommand(serveCmd, decodeCmd, encodeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
