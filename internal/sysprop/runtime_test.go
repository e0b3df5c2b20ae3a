package sysprop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigureBeforeStart(t *testing.T) {
	rt := New()
	rt.Configure(Krb5KDC, "kdc.example.com:88")
	rt.Configure(Krb5KDC, "kdc2.example.com:88")
	rt.Configure(UseSubjectCredsOnly, "false")

	assert.False(t, rt.IsRunning())
	_, ok := rt.Property(Krb5KDC)
	assert.False(t, ok)
	assert.Equal(t, []string{
		"-Djava.security.krb5.kdc=kdc2.example.com:88",
		"-Djavax.security.auth.useSubjectCredsOnly=false",
	}, rt.StartupArgs())

	rt.Start()
	assert.True(t, rt.IsRunning())
	assert.Empty(t, rt.StartupArgs())
	v, ok := rt.Property(Krb5KDC)
	assert.True(t, ok)
	assert.Equal(t, "kdc2.example.com:88", v)
}

func TestConfigureAfterStartIsLive(t *testing.T) {
	rt := New()
	var seen []string
	rt.Watch(func(key, value string) { seen = append(seen, key+"="+value) })
	rt.Configure(StatusLoggerLevel, "OFF")
	rt.Start()
	rt.Start()

	rt.Configure(Krb5Realm, "EXAMPLE.COM")
	rt.Configure(Krb5Realm, "EXAMPLE.COM")

	v, _ := rt.Property(Krb5Realm)
	assert.Equal(t, "EXAMPLE.COM", v)
	assert.Empty(t, rt.StartupArgs())
	assert.Equal(t, []string{StatusLoggerLevel + "=OFF", Krb5Realm + "=EXAMPLE.COM"}, seen)
}

func TestLogin(t *testing.T) {
	rt := New()
	_, ok := rt.Login()
	assert.False(t, ok)

	rt.SetLogin(Login{Principal: "user@EXAMPLE.COM", Keytab: "/tmp/user.keytab"})
	l, ok := rt.Login()
	assert.True(t, ok)
	assert.Equal(t, "/tmp/user.keytab", l.Keytab)
	assert.False(t, l.UseTicketCache)
}
