// SPDX-License-Identifier: MIT

package summary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"github.com/katalvlaran/spatialreg/kkp"
	"github.com/katalvlaran/spatialreg/mllag"
	"github.com/katalvlaran/spatialreg/ols"
)

// KKP renders a fitted KKP model: β with FGLS standard errors, then the
// spatial and variance parameters.
//
// Errors: ErrNilResult, ErrShape.
func KKP(res *kkp.Result) (string, error) {
	if res == nil {
		return "", ErrNilResult
	}
	k := res.K
	if len(res.Betas) < k || len(res.NameX) < k {
		return "", errors.Wrapf(ErrShape, "K=%d, %d betas, %d names", k, len(res.Betas), len(res.NameX))
	}
	coefs, err := Coefficients(res.NameX[:k], res.Betas[:k], res.VM)
	if err != nil {
		return "", err
	}

	weighting := "identity"
	if res.FullWeights {
		weighting = "Tau"
	}
	var b strings.Builder
	header(&b, "SPATIAL RANDOM EFFECTS (KKP GMM)", [][2]string{
		{"Dependent variable", res.NameY},
		{"Units (N)", strconv.Itoa(res.N)},
		{"Periods (T)", strconv.Itoa(res.T)},
		{"Observations", strconv.Itoa(res.N * res.T)},
		{"Regressors (K)", strconv.Itoa(k)},
		{"Moment weighting", weighting},
		{"GMM objective", num(res.Pass2.Objective)},
	})
	if err := coefTable(&b, coefs); err != nil {
		return "", err
	}

	params := pterm.TableData{{"Parameter", "Estimate"}}
	params = append(params,
		[]string{kkp.NameLambda, num(res.Lambda)},
		[]string{kkp.NameSigmaV, num(res.SigmaV2)},
		[]string{kkp.NameSigma1, num(res.Sigma12)},
		[]string{"theta", num(res.Theta)},
	)
	if err := table(&b, params); err != nil {
		return "", err
	}

	return b.String(), nil
}

// MLLag renders a fitted ML spatial lag model with its fit statistics.
//
// Errors: ErrNilResult, ErrShape.
func MLLag(res *mllag.Result) (string, error) {
	if res == nil {
		return "", ErrNilResult
	}
	coefs, err := Coefficients(res.NameX, res.Betas, res.VM)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	header(&b, "SPATIAL LAG MODEL (MAXIMUM LIKELIHOOD)", [][2]string{
		{"Dependent variable", res.NameY},
		{"Observations", strconv.Itoa(res.N)},
		{"Regressors (K)", strconv.Itoa(res.K)},
		{"Log-determinant method", res.Method.String()},
		{"Log likelihood", num(res.LogLik)},
		{"Akaike info criterion", num(res.AIC)},
		{"Schwarz criterion", num(res.Schwarz)},
		{"Pseudo R-squared", num(res.PR2)},
		{"Spatial pseudo R-squared", num(res.PR2E)},
		{"Sigma-square ML", num(res.Sig2)},
	})
	if err := coefTable(&b, coefs); err != nil {
		return "", err
	}

	return b.String(), nil
}

// OLS renders a least-squares fit with Student-t inference and R².
//
// Errors: ErrNilResult, ErrShape.
func OLS(res *ols.Result, nameY string, nameX []string) (string, error) {
	if res == nil {
		return "", ErrNilResult
	}
	if len(res.Betas) != res.K || len(nameX) < res.K {
		return "", errors.Wrapf(ErrShape, "K=%d, %d betas, %d names", res.K, len(res.Betas), len(nameX))
	}
	d := res.Diagnostics()

	var b strings.Builder
	header(&b, "ORDINARY LEAST SQUARES", [][2]string{
		{"Dependent variable", nameY},
		{"Observations", strconv.Itoa(res.N)},
		{"Regressors (K)", strconv.Itoa(res.K)},
		{"Degrees of freedom", strconv.Itoa(int(d.DF))},
		{"R-squared", num(d.R2)},
		{"Adjusted R-squared", num(d.AdjR2)},
		{"Sigma-square", num(res.Sig2)},
		{"Sigma-square ML", num(res.Sig2N)},
	})

	data := pterm.TableData{{"Variable", "Coefficient", "Std.Error", "t-Statistic", "Probability"}}
	for i, beta := range res.Betas {
		data = append(data, []string{nameX[i], num(beta), num(d.SE[i]), num(d.T[i]), num(d.P[i])})
	}
	if err := table(&b, data); err != nil {
		return "", err
	}

	return b.String(), nil
}

func header(b *strings.Builder, title string, rows [][2]string) {
	fmt.Fprintf(b, "%s\n%s\n", title, strings.Repeat("-", len(title)))
	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}
	for _, r := range rows {
		fmt.Fprintf(b, "%-*s : %s\n", width, r[0], r[1])
	}
	b.WriteByte('\n')
}

func coefTable(b *strings.Builder, coefs []Coefficient) error {
	data := pterm.TableData{{"Variable", "Coefficient", "Std.Error", "z", "P>|z|"}}
	for _, c := range coefs {
		data = append(data, []string{c.Name, num(c.Estimate), num(c.SE), num(c.Z), num(c.P)})
	}
	return table(b, data)
}

func table(b *strings.Builder, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "summary: render table")
	}
	b.WriteString(out)
	b.WriteString("\n\n")
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
