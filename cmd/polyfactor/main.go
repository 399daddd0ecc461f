package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/slouchart/goimath/factor"
	"github.com/slouchart/goimath/field"
	"github.com/slouchart/goimath/poly"
	"github.com/slouchart/goimath/polyparse"
	"github.com/slouchart/goimath/smallfields"
)

func printUsageAndExit(name string) {
	name = filepath.Base(name)
	fmt.Printf(`
Usage:
  %s f(actor) <field order> <polynomial>
  %s i(rreducible) <field order> <polynomial>
  %s g(enerate) <field order> <degree>

Polynomials are written in the indeterminate X, e.g. "X^4 + 2X - 1".
The field order must be a registered small field order.

`, name, name, name)
	os.Exit(-1)
}

func parsePoly[E any](f field.Field[E], expr string) poly.Polynomial[E] {
	p, err := polyparse.Polynomial(expr, f, poly.DefaultIndeterminate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %s\n", err)
		os.Exit(-1)
	}
	return p
}

func factorPoly[E any](f field.Field[E], expr string, rng *rand.Rand) {
	p := parsePoly(f, expr)
	c, factors, err := factor.New(p, rng).CantorZassenhaus()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Factorization error: %s\n", err)
		os.Exit(-1)
	}

	var parts []string
	if !field.IsOne(f, c) {
		parts = append(parts, f.Format(c))
	}
	for _, fc := range factors {
		part := "(" + fc.Value.String() + ")"
		if fc.Multiplicity > 1 {
			part += "^" + strconv.Itoa(fc.Multiplicity)
		}
		parts = append(parts, part)
	}
	fmt.Printf("%s = %s\n", p, strings.Join(parts, " "))
}

func testIrreducible[E any](f field.Field[E], expr string) {
	p := parsePoly(f, expr)
	ok, err := p.IsIrreducible()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Irreducibility error: %s\n", err)
		os.Exit(-1)
	}
	fmt.Printf("Irreducible: %t\n", ok)
	if !ok {
		os.Exit(-1)
	}
}

func parseOrder(s string) int {
	order, err := strconv.Atoi(s)
	if err != nil || !smallfields.Has(order) {
		fmt.Fprintf(os.Stderr, "Unknown field order %q\n", s)
		os.Exit(-1)
	}
	return order
}

func main() {
	name := os.Args[0]
	if len(os.Args) <= 3 {
		printUsageAndExit(name)
	}

	cmd := os.Args[1]
	order := parseOrder(os.Args[2])
	arg := os.Args[3]
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	prime, primeErr := smallfields.Prime(order)
	ext, extErr := smallfields.Extension(order)
	if primeErr != nil && extErr != nil {
		fmt.Fprintf(os.Stderr, "No field of order %d: %s\n", order, primeErr)
		os.Exit(-1)
	}

	switch strings.ToLower(cmd) {
	case "f":
		fallthrough
	case "factor":
		if primeErr == nil {
			factorPoly(prime, arg, rng)
		} else {
			factorPoly(ext, arg, rng)
		}

	case "i":
		fallthrough
	case "irreducible":
		if primeErr == nil {
			testIrreducible(prime, arg)
		} else {
			testIrreducible(ext, arg)
		}

	case "g":
		fallthrough
	case "generate":
		degree, err := strconv.Atoi(arg)
		if err != nil || degree < 1 {
			fmt.Fprintf(os.Stderr, "Invalid degree %q\n", arg)
			os.Exit(-1)
		}
		if primeErr != nil {
			fmt.Fprintln(os.Stderr, "Generation is only supported over prime fields")
			os.Exit(-1)
		}
		p, tries, err := prime.GenerateIrreduciblePolynomial(degree, 100, rng)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Generation error: %s\n", err)
			os.Exit(-1)
		}
		fmt.Printf("Found after %d tries: %s\n", tries, p)

	default:
		printUsageAndExit(name)
	}
}
