package hive2

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"strings"

	krb "github.com/jcmturner/gokrb5/v8/client"
	"github.com/jcmturner/gokrb5/v8/config"
	"github.com/jcmturner/gokrb5/v8/credentials"
	"github.com/jcmturner/gokrb5/v8/keytab"

	"github.com/mumuhhh/hivejdbc/internal/sysprop"
)

const defaultKrb5Conf = "/etc/krb5.conf"

// krb5Config loads the Kerberos configuration the way the runtime describes it:
// an explicit krb5.conf path, then KRB5_CONFIG, then the platform default. When
// both a KDC and a realm are configured they replace whatever the file says.
func krb5Config(rt *sysprop.Runtime) (*config.Config, error) {
	kdc, _ := rt.Property(sysprop.Krb5KDC)
	realm, _ := rt.Property(sysprop.Krb5Realm)
	if kdc != "" && realm != "" {
		return config.NewFromString(fmt.Sprintf(`[libdefaults]
 default_realm = %[1]s
 dns_lookup_kdc = false
 dns_lookup_realm = false
 udp_preference_limit = 1

[realms]
 %[1]s = {
  kdc = %[2]s
 }
`, realm, kdc))
	}

	path, ok := rt.Property(sysprop.Krb5Conf)
	if !ok || path == "" {
		path = os.Getenv("KRB5_CONFIG")
	}
	if path == "" {
		path = defaultKrb5Conf
	}
	if _, err := os.Stat(path); err != nil {
		logger.Debugf("no kerberos configuration at %s, using defaults", path)
		return config.New(), nil
	}
	return config.Load(path)
}

// kerberosClient logs in with the runtime's login configuration. Without one,
// the default credential cache is only used when the runtime allows credentials
// from outside the login configuration.
func kerberosClient(rt *sysprop.Runtime) (*krb.Client, error) {
	cfg, err := krb5Config(rt)
	if err != nil {
		return nil, fmt.Errorf("loading kerberos configuration: %w", err)
	}
	login, ok := rt.Login()
	if ok && login.Keytab != "" {
		kt, err := keytab.Load(login.Keytab)
		if err != nil {
			return nil, fmt.Errorf("loading keytab %s: %w", login.Keytab, err)
		}
		name, realm := splitPrincipal(login.Principal, cfg.LibDefaults.DefaultRealm)
		if name == "" {
			return nil, errors.New("keytab login requires a user principal")
		}
		cl := krb.NewWithKeytab(name, realm, kt, cfg, krb.DisablePAFXFAST(true))
		if err := cl.Login(); err != nil {
			return nil, fmt.Errorf("kerberos login as %s@%s: %w", name, realm, err)
		}
		return cl, nil
	}

	subjectOnly := true
	if v, ok := rt.Property(sysprop.UseSubjectCredsOnly); ok && strings.EqualFold(v, "false") {
		subjectOnly = false
	}
	if (ok && login.UseTicketCache) || !subjectOnly {
		path, err := credentialCachePath()
		if err != nil {
			return nil, err
		}
		cc, err := credentials.LoadCCache(path)
		if err != nil {
			return nil, fmt.Errorf("no valid kerberos credentials in %s: %w", path, err)
		}
		return krb.NewFromCCache(cc, cfg, krb.DisablePAFXFAST(true))
	}
	return nil, errors.New("no kerberos login configured and subject credentials only is enabled")
}

func credentialCachePath() (string, error) {
	if name := os.Getenv("KRB5CCNAME"); name != "" {
		return strings.TrimPrefix(name, "FILE:"), nil
	}
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("locating credential cache: %w", err)
	}
	return "/tmp/krb5cc_" + u.Uid, nil
}

// splitPrincipal splits name@REALM, falling back to defaultRealm.
func splitPrincipal(principal, defaultRealm string) (string, string) {
	if i := strings.LastIndex(principal, "@"); i >= 0 {
		return principal[:i], principal[i+1:]
	}
	return principal, defaultRealm
}

// servicePrincipal returns the service name and instance host for a Hive
// principal such as hive/_HOST@EXAMPLE.COM. _HOST and a missing instance are
// replaced by the canonical name of serverHost.
func servicePrincipal(principal, serverHost string) (service, host string) {
	name, _ := splitPrincipal(principal, "")
	service = name
	if i := strings.Index(name, "/"); i >= 0 {
		service, host = name[:i], name[i+1:]
	}
	if service == "" {
		service = "hive"
	}
	if host == "" || host == "_HOST" {
		host = canonicalHost(serverHost)
	}
	return service, host
}

func canonicalHost(host string) string {
	if net.ParseIP(host) == nil {
		return strings.ToLower(host)
	}
	names, err := net.LookupAddr(host)
	if err != nil || len(names) == 0 {
		return host
	}
	return strings.TrimSuffix(names[0], ".")
}
