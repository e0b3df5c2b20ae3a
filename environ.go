package hivejdbc

import (
	"errors"
	"strings"

	"github.com/mumuhhh/hivejdbc/args"
	"github.com/mumuhhh/hivejdbc/internal/sysprop"
)

// configureEnvironment applies the Kerberos and logging settings of r to rt.
// It runs once per connect, after resolution and before the driver is invoked.
// Before rt starts the settings become startup arguments, afterwards they are
// set live.
func configureEnvironment(rt *sysprop.Runtime, r *args.Resolved) error {
	if r.Has(ArgPrincipal) {
		rt.Configure(sysprop.UseSubjectCredsOnly, "false")
		if r.Has(ArgUserKeytab) {
			rt.SetLogin(sysprop.Login{
				Principal: r.GetString(ArgUserPrincipal),
				Keytab:    r.GetString(ArgUserKeytab),
			})
		} else {
			rt.SetLogin(sysprop.Login{UseTicketCache: true})
		}
	}
	if r.Has(ArgKrb5Conf) {
		rt.Configure(sysprop.Krb5Conf, r.GetString(ArgKrb5Conf))
	}
	if r.Has(ArgKDC) {
		rt.Configure(sysprop.Krb5KDC, r.GetString(ArgKDC))
	}
	rt.Configure(sysprop.StatusLoggerLevel, "OFF")

	if !r.Has(ArgKDC) {
		return nil
	}
	realm := r.GetString(ArgRealm)
	if realm == "" {
		realm = realmOf(r.GetString(ArgPrincipal))
	}
	if realm == "" {
		realm = realmOf(r.GetString(ArgUserPrincipal))
	}
	if realm == "" {
		return args.Invalid(ArgRealm,
			errors.New(`must be set if "kdc" is set, either explicitly or in the principal name`))
	}
	rt.Configure(sysprop.Krb5Realm, realm)
	return nil
}

// realmOf returns the REALM of name@REALM, or "".
func realmOf(principal string) string {
	if i := strings.LastIndex(principal, "@"); i >= 0 {
		return principal[i+1:]
	}
	return ""
}
