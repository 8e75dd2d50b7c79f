package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/client"
	"github.com/AmanKumar9958/AI-Trip-Planner-App/internal/domain"
)

func newLoginCmd(a *app) *cobra.Command {
	var idToken, accessToken, clientID, clientSecret string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with Google",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var source client.FederatedSource
			if idToken != "" {
				source = client.StaticSource{IDToken: idToken, AccessToken: accessToken}
			} else {
				source = &client.LoopbackSource{
					ClientID:     clientID,
					ClientSecret: clientSecret,
					Prompt: func(authURL string) {
						fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to sign in with Google:\n\n  %s\n\n", authURL)
					},
				}
			}
			user, err := a.newProvider(source).SignIn(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&idToken, "id-token", "", "use an existing Google ID token instead of the browser flow")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "Google access token to revoke on logout (with --id-token)")
	cmd.Flags().StringVar(&clientID, "client-id", os.Getenv("GOOGLE_DESKTOP_CLIENT_ID"), "Google OAuth desktop client id")
	cmd.Flags().StringVar(&clientSecret, "client-secret", os.Getenv("GOOGLE_DESKTOP_CLIENT_SECRET"), "Google OAuth desktop client secret")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.newProvider(client.StaticSource{}).SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			if user.DisplayName != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.DisplayName, user.Email)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), user.Email)
			return nil
		},
	}
}

func newOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List budget presets, traveler groups and popular destinations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.api.Options(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Budgets:")
			for _, b := range opts.Budgets {
				fmt.Fprintf(out, "  %-7s %s\n", b.Label, b.Amount)
			}
			fmt.Fprintln(out, "Traveling with:")
			for _, t := range opts.Travelers {
				fmt.Fprintf(out, "  %s\n", t.Label)
			}
			if len(opts.PopularDestinations) > 0 {
				fmt.Fprintln(out, "Popular destinations:")
				for _, d := range opts.PopularDestinations {
					fmt.Fprintf(out, "  %s\n", d.Name)
				}
			}
			return nil
		},
	}
}

func newGenerateCmd(a *app) *cobra.Command {
	req := client.TripRequest{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new trip itinerary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generating a %d day trip to %s...\n", req.Days, req.Destination)
			res, err := a.api.GenerateTrip(cmd.Context(), req)
			if err != nil {
				return describeError(err)
			}
			if err := client.WriteTrip(out, res.Trip); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved as trip %s\n", res.Trip.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Destination, "destination", "d", "", "where to go")
	cmd.Flags().IntVarP(&req.Days, "days", "n", domain.DefaultTripDays, "number of days")
	cmd.Flags().StringVarP(&req.Budget, "budget", "b", "", "budget preset (Low, Medium, High)")
	cmd.Flags().StringVar(&req.CustomBudget, "custom-budget", "", "total budget in rupees, overrides --budget")
	cmd.Flags().StringVarP(&req.Traveler, "with", "w", "", "traveling with (Just Me, A Couple, Family, Friends)")
	_ = cmd.MarkFlagRequired("destination")
	return cmd
}

func newTripsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Manage saved trips",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your trips",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			trips, err := a.api.ListTrips(cmd.Context())
			if err != nil {
				return describeError(err)
			}
			return client.WriteTripList(cmd.OutOrStdout(), trips)
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a trip itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			trip, err := a.api.GetTrip(cmd.Context(), args[0])
			if err != nil {
				return describeError(err)
			}
			return client.WriteTrip(cmd.OutOrStdout(), *trip)
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			if !yes {
				trip, err := a.api.GetTrip(cmd.Context(), args[0])
				if err != nil {
					return describeError(err)
				}
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), client.DeletePrompt(trip)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}
			if err := a.api.DeleteTrip(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("could not delete the trip, please try again: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	share := &cobra.Command{
		Use:   "share <id>",
		Short: "Print a shareable trip summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			res, err := a.api.ShareTrip(cmd.Context(), args[0])
			if err != nil {
				return describeError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}

	var outPath string
	cal := &cobra.Command{
		Use:   "calendar <id>",
		Short: "Export a trip itinerary as iCalendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			ics, err := a.api.TripCalendar(cmd.Context(), args[0])
			if err != nil {
				return describeError(err)
			}
			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(ics)
				return err
			}
			if err := os.WriteFile(outPath, ics, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}
	cal.Flags().StringVarP(&outPath, "out", "o", "", "output file (stdout when empty)")

	cmd.AddCommand(list, show, del, share, cal)
	return cmd
}

func newPlacesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "places <query>",
		Short: "Suggest destinations matching a partial name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			suggestions, err := a.api.Autocomplete(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return describeError(err)
			}
			out := cmd.OutOrStdout()
			if len(suggestions) == 0 {
				fmt.Fprintln(out, "No matches")
				return nil
			}
			for _, s := range suggestions {
				if s.Timezone != "" {
					fmt.Fprintf(out, "%s (%s)\n", s.DisplayName, s.Timezone)
					continue
				}
				fmt.Fprintln(out, s.DisplayName)
			}
			return nil
		},
	}
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
