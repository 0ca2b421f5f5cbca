package bandit

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
)

// Inspect prints the reward ranges and the mean and std of every arm.
// The optimal arm is highlighted when colors is set.
func (b *Bandit) Inspect(w io.Writer, colors bool) {
	au := aurora.NewAurora(colors)
	fmt.Fprintf(w, "Action Reward Range: Means %v and STDev Range %v\n", b.config.MeanRange, b.config.StdRange)
	for arm := range b.means {
		line := fmt.Sprintf("Action %d: Mean %.2f and STDev %.2f", arm, b.means[arm], b.stds[arm])
		if arm == b.optimal {
			fmt.Fprintln(w, au.Bold(au.Green(line+" (optimal)")))
			continue
		}
		fmt.Fprintln(w, line)
	}
}
